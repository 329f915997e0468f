package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/smartotp/internal/authenticator/entity"
	"github.com/shandysiswandi/smartotp/internal/pkg/clock"
	"github.com/shandysiswandi/smartotp/internal/pkg/config"
	"github.com/shandysiswandi/smartotp/internal/pkg/goerror"
	"github.com/shandysiswandi/smartotp/internal/pkg/idempotency"
	"github.com/shandysiswandi/smartotp/internal/pkg/instrument"
	"github.com/shandysiswandi/smartotp/internal/pkg/jwt"
	"github.com/shandysiswandi/smartotp/internal/pkg/otp"
	"github.com/shandysiswandi/smartotp/internal/pkg/storage"
	"github.com/shandysiswandi/smartotp/internal/pkg/throttle"
	"github.com/shandysiswandi/smartotp/internal/pkg/uid"
	"github.com/shandysiswandi/smartotp/internal/pkg/validator"
	"github.com/shandysiswandi/smartotp/internal/pkg/vault"
	"github.com/shandysiswandi/smartotp/internal/shared/event"
	"go.opentelemetry.io/otel/trace"
)

// ClientInfo identifies the caller in audit records.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

type AuditEvent struct {
	OwnerID      int64
	Action       event.AuditAction
	Success      bool
	Details      string
	ErrorMessage string
	Client       ClientInfo
}

type repoMessaging interface {
	PublishAudit(ctx context.Context, ev AuditEvent) error
}

type repoDB interface {
	GetAccount(ctx context.Context, id, ownerID int64, includeDeleted bool) (*entity.Account, error)
	GetAccountList(ctx context.Context, ownerID int64) ([]entity.Account, error)

	CreateAccount(ctx context.Context, acc entity.Account) error

	UpdateAccountDetails(ctx context.Context, in entity.AccountDetails) error
	UpdateAccountSortOrder(ctx context.Context, id, ownerID int64, sortOrder int) error
	MarkAccountDeleted(ctx context.Context, id, ownerID int64) error

	// AdvanceHOTPCounter increments the stored counter and returns the value
	// it held before the increment.
	AdvanceHOTPCounter(ctx context.Context, id, ownerID int64) (uint64, error)
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	throttle      throttle.Counter
	idemp         idempotency.Guard
	encryptor     vault.Encryptor
	storage       storage.Storage
	validator     validator.Validator
	cfg           config.Config
	uid           uid.NumberID
	uuid          uid.StringID
	clock         clock.Clocker
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Throttle      throttle.Counter
	Idempotency   idempotency.Guard
	Encryptor     vault.Encryptor
	Storage       storage.Storage // optional, export is unavailable without it
	Validator     validator.Validator
	Config        config.Config
	UID           uid.NumberID
	UUID          uid.StringID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		throttle:      dep.Throttle,
		idemp:         dep.Idempotency,
		encryptor:     dep.Encryptor,
		storage:       dep.Storage,
		validator:     dep.Validator,
		cfg:           dep.Config,
		uid:           dep.UID,
		uuid:          dep.UUID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("authenticator.usecase").Start(ctx, name)
}

func (s *Usecase) authenticated(ctx context.Context) (int64, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil || clm.OwnerID <= 0 {
		return 0, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	return clm.OwnerID, nil
}

// audit is best effort: a publish failure is logged and never changes the
// outcome of the operation being audited.
func (s *Usecase) audit(ctx context.Context, ev AuditEvent) {
	if err := s.repoMessaging.PublishAudit(ctx, ev); err != nil {
		slog.WarnContext(ctx, "failed to publish audit event",
			"owner_id", ev.OwnerID, "action", ev.Action.String(), "error", err)
	}
}

func (s *Usecase) accountNotFound(ctx context.Context, ownerID, accountID int64, action event.AuditAction, client ClientInfo) error {
	slog.WarnContext(ctx, "otp account not found", "owner_id", ownerID, "account_id", accountID)
	s.audit(ctx, AuditEvent{
		OwnerID:      ownerID,
		Action:       action,
		Details:      accountRef(accountID),
		ErrorMessage: "OTP account not found",
		Client:       client,
	})

	return goerror.NewBusiness("OTP account not found", goerror.CodeNotFound)
}

// openSecret decrypts the stored secret and decodes it into key bytes. The
// caller must clear the returned slice.
func (s *Usecase) openSecret(ctx context.Context, acc *entity.Account) ([]byte, error) {
	plain, err := s.encryptor.Decrypt(acc.SecretCiphertext, acc.SecretScope())
	if err != nil {
		slog.ErrorContext(ctx, "failed to decrypt otp secret", "account_id", acc.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	secret, err := otp.DecodeBase32(plain)
	if err != nil {
		slog.ErrorContext(ctx, "stored otp secret is not base32", "account_id", acc.ID, "error", err)
		return nil, goerror.NewInvalidFormatError(err, "Stored OTP secret is not valid Base32")
	}

	return secret, nil
}

func asGoError(ctx context.Context, msg string, err error) error {
	var gerr *goerror.Error
	if errors.As(err, &gerr) {
		return err
	}

	slog.ErrorContext(ctx, msg, "error", err)
	return goerror.NewServer(err)
}
