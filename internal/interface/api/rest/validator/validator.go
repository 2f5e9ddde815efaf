package validator

import (
	"errors"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"expiry-scanner-api/internal/interface/api/rest/dto/auth"
	"expiry-scanner-api/internal/interface/api/rest/dto/pipeline"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt safe
	maxFilenameLen = 255
	maxPage        = 10000
)

var (
	e164Re = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)
)

func ValidatePage(page string) (int, error) {
	if page == "" {
		return 1, nil
	}
	p, err := strconv.Atoi(page)
	if err != nil || p < 1 || p > maxPage {
		return 0, errors.New("invalid page")
	}

	return p, nil
}

func IsUUID(s string) (bool, uuid.UUID) {
	id, err := uuid.Parse(s)
	return err == nil, id
}

func ValidateUploadTarget(r pipeline.UploadTargetRequest) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(r.Filename) == "" {
		errs["filename"] = "filename is required"
	} else if utf8.RuneCountInString(r.Filename) > maxFilenameLen {
		errs["filename"] = "filename must be at most 255 characters"
	}
	if strings.TrimSpace(r.ContentType) == "" {
		errs["contentType"] = "contentType is required"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateAnalyze leaves email untouched; it is matched verbatim.
func ValidateAnalyze(r pipeline.AnalyzeRequest) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(r.ImageURL) == "" {
		errs["imageUrl"] = "imageUrl is required"
	} else if u, err := url.Parse(r.ImageURL); err != nil ||
		(u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs["imageUrl"] = "imageUrl must be an absolute http(s) URL"
	}
	if strings.TrimSpace(r.Email) == "" {
		errs["email"] = "email is required"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.New("invalid email format")
	}
	return nil
}

func ValidateSignUp(r auth.SignUpRequest) map[string]string {
	errs := ValidateLogin(auth.LoginRequest{Email: r.Email, Password: r.Password})
	if errs == nil {
		errs = make(map[string]string)
	}

	if r.PhoneNumber != nil && !e164Re.MatchString(strings.TrimSpace(*r.PhoneNumber)) {
		errs["phoneNumber"] = "must be in E.164 format (e.g., +33788888888)"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func ValidateLogin(r auth.LoginRequest) map[string]string {
	errs := make(map[string]string)

	// password is not trimmed
	password := r.Password

	if err := ValidateEmail(r.Email); err != nil {
		errs["email"] = err.Error()
	}

	if strings.TrimSpace(password) == "" {
		errs["password"] = "password is required"
	} else if l := utf8.RuneCountInString(password); l < minPasswordLen || l > maxPasswordLen {
		errs["password"] = "password length must be 8-72 characters"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
