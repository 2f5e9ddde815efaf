package user

const (
	userColumns = `id, uuid, email, password_hash, phone_number, is_active, created_at, last_login, updated_at, expiry_date, product_name, last_analyzed_at, image_url`

	SelectUserByID = `
		SELECT ` + userColumns + `
		FROM users
		WHERE uuid = $1
	`
	SelectUsersByEmail = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
		ORDER BY id
		LIMIT $2
	`
	InsertUser = `
		INSERT INTO users (email, password_hash, phone_number)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns
	UpdateUserAnalysisByUUID = `
		UPDATE users
		SET expiry_date = $1,
		    product_name = $2,
		    last_analyzed_at = $3,
		    image_url = $4,
		    updated_at = now()
		WHERE uuid = $5
		RETURNING ` + userColumns
	UpdateLastLoginByUUID = `
		UPDATE users
		SET last_login = now()
		WHERE uuid = $1
	`
)
