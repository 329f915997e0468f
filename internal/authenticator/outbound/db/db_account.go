package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shandysiswandi/smartotp/internal/authenticator/entity"
	"github.com/shandysiswandi/smartotp/internal/pkg/otp"
)

type accountRow struct {
	ID               int64              `db:"id"`
	OwnerID          int64              `db:"owner_id"`
	Issuer           string             `db:"issuer"`
	AccountName      string             `db:"account_name"`
	Type             int16              `db:"type"`
	Algorithm        int16              `db:"algorithm"`
	Digits           int16              `db:"digits"`
	Period           int32              `db:"period"`
	Counter          int64              `db:"counter"`
	SecretCiphertext string             `db:"secret_ciphertext"`
	SecretCreatedAt  time.Time          `db:"secret_created_at"`
	IconURL          pgtype.Text        `db:"icon_url"`
	SortOrder        int32              `db:"sort_order"`
	CreatedAt        time.Time          `db:"created_at"`
	UpdatedAt        time.Time          `db:"updated_at"`
	DeletedAt        pgtype.Timestamptz `db:"deleted_at"`
}

func (r accountRow) toEntity() entity.Account {
	acc := entity.Account{
		ID:               r.ID,
		OwnerID:          r.OwnerID,
		Issuer:           r.Issuer,
		AccountName:      r.AccountName,
		Type:             otp.Type(r.Type),
		Algorithm:        otp.Algorithm(r.Algorithm),
		Digits:           int(r.Digits),
		Period:           uint(r.Period),
		Counter:          uint64(r.Counter),
		SecretCiphertext: r.SecretCiphertext,
		SecretCreatedAt:  r.SecretCreatedAt,
		IconURL:          r.IconURL.String,
		SortOrder:        int(r.SortOrder),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if r.DeletedAt.Valid {
		deletedAt := r.DeletedAt.Time
		acc.DeletedAt = &deletedAt
	}

	return acc
}

func (s *DB) GetAccount(ctx context.Context, id, ownerID int64, includeDeleted bool) (_ *entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "GetAccount")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, queryGetAccount, id, ownerID, includeDeleted)
	if err != nil {
		return nil, s.mapError(err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[accountRow])
	if err != nil {
		return nil, s.mapError(err)
	}

	acc := row.toEntity()
	return &acc, nil
}

func (s *DB) GetAccountList(ctx context.Context, ownerID int64) (_ []entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "GetAccountList")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, queryGetAccountList, ownerID)
	if err != nil {
		return nil, s.mapError(err)
	}

	result, err := pgx.CollectRows(rows, pgx.RowToStructByName[accountRow])
	if err != nil {
		return nil, s.mapError(err)
	}

	accounts := make([]entity.Account, 0, len(result))
	for _, r := range result {
		accounts = append(accounts, r.toEntity())
	}

	return accounts, nil
}

func (s *DB) CreateAccount(ctx context.Context, acc entity.Account) (err error) {
	ctx, span := s.startSpan(ctx, "CreateAccount")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryCreateAccount,
		acc.ID,
		acc.OwnerID,
		acc.Issuer,
		acc.AccountName,
		int16(acc.Type),
		int16(acc.Algorithm),
		int16(acc.Digits),
		int32(acc.Period),
		int64(acc.Counter),
		acc.SecretCiphertext,
		acc.SecretCreatedAt,
		pgtype.Text{String: acc.IconURL, Valid: acc.IconURL != ""},
		int32(acc.SortOrder),
		acc.CreatedAt,
		acc.UpdatedAt,
	)
	return s.mapError(err)
}

func (s *DB) UpdateAccountDetails(ctx context.Context, in entity.AccountDetails) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateAccountDetails")
	defer func() { s.endSpan(span, err) }()

	return s.mapError(affected(s.conn.Exec(ctx, queryUpdateAccountDetails,
		in.ID,
		in.OwnerID,
		in.Issuer,
		in.AccountName,
		pgtype.Text{String: in.IconURL, Valid: in.IconURL != ""},
	)))
}

func (s *DB) UpdateAccountSortOrder(ctx context.Context, id, ownerID int64, sortOrder int) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateAccountSortOrder")
	defer func() { s.endSpan(span, err) }()

	return s.mapError(affected(s.conn.Exec(ctx, queryUpdateAccountSortOrder, id, ownerID, int32(sortOrder))))
}

func (s *DB) MarkAccountDeleted(ctx context.Context, id, ownerID int64) (err error) {
	ctx, span := s.startSpan(ctx, "MarkAccountDeleted")
	defer func() { s.endSpan(span, err) }()

	return s.mapError(affected(s.conn.Exec(ctx, queryMarkAccountDeleted, id, ownerID)))
}

func (s *DB) AdvanceHOTPCounter(ctx context.Context, id, ownerID int64) (_ uint64, err error) {
	ctx, span := s.startSpan(ctx, "AdvanceHOTPCounter")
	defer func() { s.endSpan(span, err) }()

	var previous int64
	if err := s.conn.QueryRow(ctx, queryAdvanceHOTPCounter, id, ownerID).Scan(&previous); err != nil {
		return 0, s.mapError(err)
	}

	return uint64(previous), nil
}
