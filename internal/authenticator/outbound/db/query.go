package db

const accountColumns = `id, owner_id, issuer, account_name, type, algorithm, digits, period, counter,
	secret_ciphertext, secret_created_at, icon_url, sort_order, created_at, updated_at, deleted_at`

const (
	queryGetAccount = `SELECT ` + accountColumns + ` FROM otp_accounts
	WHERE id = $1 AND owner_id = $2 AND ($3 OR deleted_at IS NULL)`

	queryGetAccountList = `SELECT ` + accountColumns + ` FROM otp_accounts
	WHERE owner_id = $1 AND deleted_at IS NULL
	ORDER BY sort_order, created_at, id`

	queryCreateAccount = `INSERT INTO otp_accounts (` + accountColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NULL)`

	queryUpdateAccountDetails = `UPDATE otp_accounts
	SET issuer = $3, account_name = $4, icon_url = $5, updated_at = now()
	WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL`

	queryUpdateAccountSortOrder = `UPDATE otp_accounts
	SET sort_order = $3, updated_at = now()
	WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL`

	queryMarkAccountDeleted = `UPDATE otp_accounts
	SET deleted_at = now(), updated_at = now()
	WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL`

	// The increment and the read of the previous value happen in one
	// statement so concurrent generators never receive the same counter.
	queryAdvanceHOTPCounter = `UPDATE otp_accounts
	SET counter = counter + 1, updated_at = now()
	WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL AND type = 2
	RETURNING counter - 1`
)
