// Command expiryscan uploads a photo to the expiry scanner and prints the
// expiry date it finds.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"expiry-scanner-api/internal/domain/upload"
	"expiry-scanner-api/internal/infrastructure/blob"
	"expiry-scanner-api/internal/interface/api/rest"
	"expiry-scanner-api/internal/interface/api/rest/dto/pipeline"
)

const requestTimeout = 2 * time.Minute

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot initialize zap logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	httpClient := &http.Client{Timeout: requestTimeout}
	if err = run(ctx, logger, os.Args[1:], os.Stdout, httpClient); err != nil {
		logger.Error("scan failed", zap.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *zap.Logger, args []string, out io.Writer, httpClient *http.Client) error {
	fs := flag.NewFlagSet("expiryscan", flag.ContinueOnError)
	api := fs.String("api", "http://localhost:8080", "expiry scanner base URL")
	file := fs.String("file", "", "photo to analyze")
	email := fs.String("email", "", "email of the user to update")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" || *email == "" {
		return errors.New("-file and -email are required")
	}

	body, err := readAsset(*file)
	if err != nil {
		return err
	}
	contentType := detectContentType(*file, body)
	base := strings.TrimRight(*api, "/")

	var target pipeline.UploadTargetResponse
	if err = postJSON(ctx, httpClient, base+rest.RouteUploadTarget, pipeline.UploadTargetRequest{
		Filename:    filepath.Base(*file),
		ContentType: contentType,
	}, &target); err != nil {
		return fmt.Errorf("request upload target: %w", err)
	}
	logger.Debug("upload target issued", zap.String("key", target.Key), zap.Time("expires_at", target.WriteTarget.ExpiresAt))

	cred := upload.WriteCredential{
		URL:       target.WriteTarget.URL,
		Method:    target.WriteTarget.Method,
		Headers:   target.WriteTarget.Headers,
		ExpiresAt: target.WriteTarget.ExpiresAt,
	}
	if err = blob.New(httpClient).Transfer(ctx, cred, body, contentType); err != nil {
		return err
	}
	logger.Debug("asset stored", zap.String("public_ref", target.PublicRef))

	var res pipeline.AnalyzeResponse
	if err = postJSON(ctx, httpClient, base+rest.RouteAnalyze, pipeline.AnalyzeRequest{
		ImageURL: target.PublicRef,
		Email:    *email,
	}, &res); err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	_, err = fmt.Fprintln(out, res.Response)
	return err
}

func readAsset(path string) ([]byte, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.Size() > blob.MaxAssetSize {
		return nil, fmt.Errorf("%s is %d bytes, limit is %d", path, fi.Size(), blob.MaxAssetSize)
	}
	return os.ReadFile(path)
}

func detectContentType(path string, body []byte) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil {
			return mt
		}
	}
	ct := http.DetectContentType(body)
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		return mt
	}
	return ct
}

type apiError struct {
	Message string `json:"message"`
}

func postJSON(ctx context.Context, c *http.Client, url string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var ae apiError
		if json.Unmarshal(raw, &ae) == nil && ae.Message != "" {
			return fmt.Errorf("%d: %s", resp.StatusCode, ae.Message)
		}
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.Unmarshal(raw, out)
}
