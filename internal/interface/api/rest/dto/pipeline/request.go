package pipeline

type (
	UploadTargetRequest struct {
		Filename    string `json:"filename"`
		ContentType string `json:"contentType"`
	}
	AnalyzeRequest struct {
		ImageURL string `json:"imageUrl"`
		Email    string `json:"email"`
	}
)
