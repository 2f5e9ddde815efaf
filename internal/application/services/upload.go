package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"expiry-scanner-api/internal/application/ports"
	"expiry-scanner-api/internal/domain/apperr"
	"expiry-scanner-api/internal/domain/upload"
)

const fallbackBaseName = "file"

var (
	ErrEmptyFilename = errors.New("filename is required")

	fileUnsafeRe = regexp.MustCompile(`[^A-Za-z0-9-]`)
	extUnsafeRe  = regexp.MustCompile(`[^A-Za-z0-9]`)
	dashRunRe    = regexp.MustCompile(`-{2,}`)
)

type UploadService struct {
	s3        ports.S3Client
	keyPrefix string
	now       func() time.Time
}

func NewUploadService(s3 ports.S3Client, keyPrefix string) *UploadService {
	return &UploadService{
		s3:        s3,
		keyPrefix: strings.Trim(keyPrefix, "/"),
		now:       time.Now,
	}
}

// IssueUploadTarget derives a fresh storage key for the intent and signs a
// write credential for it. Nothing is stored.
func (us *UploadService) IssueUploadTarget(ctx context.Context, in upload.Intent) (*upload.Target, error) {
	if strings.TrimSpace(in.Filename) == "" {
		return nil, ErrEmptyFilename
	}
	if us.keyPrefix == "" {
		return nil, apperr.New(apperr.ErrConfiguration, "upload key prefix is not set")
	}

	key := us.buildKey(in.Filename)

	cred, err := us.s3.PresignPut(ctx, key.String(), in.ContentType)
	if err != nil {
		if errors.Is(err, apperr.ErrConfiguration) || errors.Is(err, apperr.ErrStorage) {
			return nil, err
		}
		return nil, apperr.Wrap(apperr.ErrStorage, "failed to sign upload", err)
	}

	return &upload.Target{
		Key:         key,
		WriteTarget: cred,
		PublicRef:   upload.PublicAssetRef{URL: us.s3.GetPublicURL(key.String())},
	}, nil
}

func (us *UploadService) buildKey(filename string) upload.StorageKey {
	return upload.StorageKey(fmt.Sprintf(
		"%s/%d-%s",
		us.keyPrefix,
		us.now().UnixMilli(),
		SanitizeFileName(filename),
	))
}

// SanitizeFileName maps every character of the base name outside
// [A-Za-z0-9-] to '-' and collapses runs of '-'. The extension after the
// last dot keeps only [A-Za-z0-9], so the key never gains a path segment,
// query or fragment. Applying it twice changes nothing.
func SanitizeFileName(name string) string {
	name = norm.NFC.String(name)

	base, ext, hasExt := name, "", false
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		base, ext, hasExt = name[:i], name[i+1:], true
	}

	ext = extUnsafeRe.ReplaceAllString(ext, "")
	base = fileUnsafeRe.ReplaceAllString(base, "-")
	base = dashRunRe.ReplaceAllString(base, "-")
	if base == "" {
		base = fallbackBaseName
	}

	if !hasExt {
		return base
	}
	return base + "." + ext
}
