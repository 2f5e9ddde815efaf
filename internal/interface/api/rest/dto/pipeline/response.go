package pipeline

import (
	"time"

	"expiry-scanner-api/internal/domain/analysis"
	"expiry-scanner-api/internal/domain/upload"
)

type (
	WriteTarget struct {
		URL       string            `json:"url"`
		Method    string            `json:"method"`
		Headers   map[string]string `json:"headers"`
		ExpiresAt time.Time         `json:"expiresAt"`
	}
	UploadTargetResponse struct {
		Success     bool        `json:"success"`
		WriteTarget WriteTarget `json:"writeTarget"`
		PublicRef   string      `json:"publicRef"`
		Key         string      `json:"key"`
	}
	AnalyzeResponse struct {
		Success  bool   `json:"success"`
		Response string `json:"response"`
	}
)

func ToUploadTargetResponse(t upload.Target) UploadTargetResponse {
	headers := t.WriteTarget.Headers
	if headers == nil {
		headers = map[string]string{}
	}

	return UploadTargetResponse{
		Success: true,
		WriteTarget: WriteTarget{
			URL:       t.WriteTarget.URL,
			Method:    t.WriteTarget.Method,
			Headers:   headers,
			ExpiresAt: t.WriteTarget.ExpiresAt,
		},
		PublicRef: t.PublicRef.URL,
		Key:       t.Key.String(),
	}
}

func ToAnalyzeResponse(r analysis.Result) AnalyzeResponse {
	return AnalyzeResponse{Success: true, Response: r.ExtractedDate}
}
