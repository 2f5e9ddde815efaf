package analysis

const (
	SelectRecords = `
		SELECT id, uuid, user_id, image_url, extracted_date, product_name, created_at
		FROM analysis_history
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 50 OFFSET ( ($2 - 1) * 50 )
	`
	InsertRecord = `
		INSERT INTO analysis_history (user_id, image_url, extracted_date, product_name)
		VALUES ($1, $2, $3, $4)
		RETURNING
		  id, uuid, user_id, image_url, extracted_date, product_name, created_at
	`
)
