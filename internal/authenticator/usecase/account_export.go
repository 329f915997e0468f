package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/smartotp/internal/authenticator/entity"
	"github.com/shandysiswandi/smartotp/internal/pkg/goerror"
	"github.com/shandysiswandi/smartotp/internal/pkg/otp"
	"github.com/shandysiswandi/smartotp/internal/pkg/storage"
)

const defaultExportURLTTL = 15 * time.Minute

type (
	AccountExportOutput struct {
		URL       string
		ExpiresAt time.Time
		Total     int
	}

	exportDocument struct {
		OwnerID    int64           `json:"owner_id"`
		ExportedAt time.Time       `json:"exported_at"`
		Accounts   []exportAccount `json:"accounts"`
	}

	exportAccount struct {
		ID          int64     `json:"id"`
		Issuer      string    `json:"issuer"`
		AccountName string    `json:"account_name"`
		Type        string    `json:"type"`
		Algorithm   string    `json:"algorithm"`
		Digits      int       `json:"digits"`
		Period      uint      `json:"period,omitempty"`
		Counter     uint64    `json:"counter,omitempty"`
		IconURL     string    `json:"icon_url,omitempty"`
		SortOrder   int       `json:"sort_order"`
		CreatedAt   time.Time `json:"created_at"`
	}
)

// AccountExport uploads the caller's account metadata as JSON and returns a
// presigned download URL. Secrets are never part of the document.
func (s *Usecase) AccountExport(ctx context.Context) (*AccountExportOutput, error) {
	ctx, span := s.startSpan(ctx, "AccountExport")
	defer span.End()

	ownerID, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	if s.storage == nil {
		slog.WarnContext(ctx, "otp export requested without object storage", "owner_id", ownerID)
		return nil, goerror.NewBusiness("Export is not available", goerror.CodeUnavailable)
	}

	accounts, err := s.repoDB.GetAccountList(ctx, ownerID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list otp accounts", "owner_id", ownerID, "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	doc := exportDocument{
		OwnerID:    ownerID,
		ExportedAt: now,
		Accounts: lo.Map(accounts, func(a entity.Account, _ int) exportAccount {
			ea := exportAccount{
				ID:          a.ID,
				Issuer:      a.Issuer,
				AccountName: a.AccountName,
				Type:        a.Type.String(),
				Algorithm:   a.Algorithm.String(),
				Digits:      a.Digits,
				IconURL:     a.IconURL,
				SortOrder:   a.SortOrder,
				CreatedAt:   a.CreatedAt,
			}
			if a.Type == otp.TypeTOTP {
				ea.Period = a.Period
			} else {
				ea.Counter = a.Counter
			}
			return ea
		}),
	}

	body, err := json.Marshal(doc)
	if err != nil {
		slog.ErrorContext(ctx, "failed to marshal otp export", "owner_id", ownerID, "error", err)
		return nil, goerror.NewServer(err)
	}

	key := fmt.Sprintf("otp-exports/%d/%s.json", ownerID, s.uuid.Generate())
	_, err = s.storage.PutObject(ctx, key, bytes.NewReader(body), storage.PutOptions{
		Size:        int64(len(body)),
		ContentType: "application/json",
		Metadata:    map[string]string{"owner-id": fmt.Sprint(ownerID)},
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to upload otp export", "key", key, "error", err)
		return nil, goerror.NewServer(err)
	}

	ttl := s.cfg.GetDuration("modules.authenticator.export.url_ttl")
	if ttl <= 0 {
		ttl = defaultExportURLTTL
	}

	url, err := s.storage.PresignGet(ctx, key, ttl)
	if err != nil {
		slog.ErrorContext(ctx, "failed to presign otp export", "key", key, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &AccountExportOutput{URL: url, ExpiresAt: now.Add(ttl), Total: len(doc.Accounts)}, nil
}
