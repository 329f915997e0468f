package event

const OtpAuditDestination string = "otp_audit"
const OtpAuditConsumerAudit string = "otp_audit_audit"

// AuditAction values are stored as-is in audit_logs.action.
type AuditAction int16

const (
	AuditActionUnknown               AuditAction = 0
	AuditActionOtpAccountCreated     AuditAction = 4
	AuditActionOtpAccountUpdated     AuditAction = 5
	AuditActionOtpAccountDeleted     AuditAction = 6
	AuditActionOtpGenerated          AuditAction = 7
	AuditActionOtpVerified           AuditAction = 8
	AuditActionOtpVerificationFailed AuditAction = 9
)

func (a AuditAction) String() string {
	switch a {
	case AuditActionOtpAccountCreated:
		return "OTP_ACCOUNT_CREATED"
	case AuditActionOtpAccountUpdated:
		return "OTP_ACCOUNT_UPDATED"
	case AuditActionOtpAccountDeleted:
		return "OTP_ACCOUNT_DELETED"
	case AuditActionOtpGenerated:
		return "OTP_GENERATED"
	case AuditActionOtpVerified:
		return "OTP_VERIFIED"
	case AuditActionOtpVerificationFailed:
		return "OTP_VERIFICATION_FAILED"
	default:
		return "UNKNOWN"
	}
}

func (a AuditAction) Valid() bool {
	return a.String() != "UNKNOWN"
}

// ParseAuditAction maps a name such as "OTP_VERIFIED" back to its action.
func ParseAuditAction(s string) AuditAction {
	for a := AuditActionOtpAccountCreated; a <= AuditActionOtpVerificationFailed; a++ {
		if a.String() == s {
			return a
		}
	}

	return AuditActionUnknown
}

type OtpAuditMessage struct {
	OwnerID       int64       `json:"owner_id"`
	Action        AuditAction `json:"action"`
	Success       bool        `json:"success"`
	Details       string      `json:"details"`
	ErrorMessage  string      `json:"error_message,omitempty"`
	IPAddress     string      `json:"ip_address,omitempty"`
	UserAgent     string      `json:"user_agent,omitempty"`
	CorrelationID string      `json:"correlation_id,omitempty"`
	OccurredAt    int64       `json:"occurred_at"`
}
