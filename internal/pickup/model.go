package pickup

import (
	"regexp"
	"strings"
	"time"

	"pickup-service/internal/apperr"

	"github.com/google/uuid"
)

type Status string

const (
	StatusNew     Status = "new"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusNG      Status = "ng"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusWorking, StatusDone, StatusNG:
		return true
	}
	return false
}

type Drivable string

const (
	CanDrive    Drivable = "drivable"
	CannotDrive Drivable = "not_drivable"
)

func (d Drivable) Valid() bool {
	return d == CanDrive || d == CannotDrive
}

func (d Drivable) Label() string {
	if d == CanDrive {
		return "drivable"
	}
	return "not drivable"
}

type Owner string

const (
	OwnerSelf  Owner = "self"
	OwnerOther Owner = "not_self"
)

func (o Owner) Valid() bool {
	return o == OwnerSelf || o == OwnerOther
}

func (o Owner) Label() string {
	if o == OwnerSelf {
		return "registered owner"
	}
	return "not the registered owner (inheritance etc.)"
}

// Request is one stored pickup lead.
type Request struct {
	ID        uuid.UUID `json:"id"`
	Maker     string    `json:"maker"`
	Model     string    `json:"model"`
	Drivable  Drivable  `json:"drivable"`
	Owner     Owner     `json:"owner"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Status    Status    `json:"status"`
	Memo      *string   `json:"memo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrMissingFields   = apperr.Validation("Required fields are missing")
	ErrInvalidDrivable = apperr.Validation("Invalid drivable")
	ErrInvalidOwner    = apperr.Validation("Invalid owner")
	ErrInvalidEmail    = apperr.Validation("Invalid email")
	ErrInvalidStatus   = apperr.Validation("Invalid status")
	ErrInvalidID       = apperr.Validation("Invalid id")
	ErrInvalidIDs      = apperr.Validation("Invalid ids")
	ErrNotFound        = apperr.New(apperr.KindNotFound, "Not found")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Submission is the public form body. Company is a honeypot that real
// visitors never see.
type Submission struct {
	Maker    string `json:"maker"`
	Model    string `json:"model"`
	Drivable string `json:"drivable"`
	Owner    string `json:"owner"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Company  string `json:"company"`
}

func (s Submission) IsBot() bool {
	return strings.TrimSpace(s.Company) != ""
}

// Normalize trims the submission and checks it, returning the request to
// store. Checks run in a fixed order so the first failure wins.
func (s Submission) Normalize() (Request, error) {
	r := Request{
		Maker:    strings.TrimSpace(s.Maker),
		Model:    strings.TrimSpace(s.Model),
		Drivable: Drivable(s.Drivable),
		Owner:    Owner(s.Owner),
		Address:  strings.TrimSpace(s.Address),
		Phone:    NormalizePhone(s.Phone),
		Email:    strings.TrimSpace(s.Email),
		Status:   StatusNew,
	}

	switch {
	case r.Maker == "", r.Model == "", r.Address == "", r.Phone == "", r.Email == "":
		return Request{}, ErrMissingFields
	case !r.Drivable.Valid():
		return Request{}, ErrInvalidDrivable
	case !r.Owner.Valid():
		return Request{}, ErrInvalidOwner
	case !emailPattern.MatchString(r.Email):
		return Request{}, ErrInvalidEmail
	}

	return r, nil
}

// NormalizePhone keeps only digits and '+'.
func NormalizePhone(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '+' {
			return r
		}
		return -1
	}, s)
}
