package tlog

import "github.com/gin-gonic/gin"

func AuditVerificationStarted(c *gin.Context, flowID string) {
	Audit.Info().
		Str("event", "verification_started").
		Str("flow", flowID).
		Str("ip", c.ClientIP()).
		Send()
}

func AuditVerificationSuccess(c *gin.Context, flowID string) {
	Audit.Info().
		Str("event", "verification").
		Str("result", "success").
		Str("flow", flowID).
		Str("ip", c.ClientIP()).
		Send()
}

func AuditVerificationFailure(c *gin.Context, flowID string, reason string) {
	Audit.Warn().
		Str("event", "verification").
		Str("result", "failure").
		Str("flow", flowID).
		Str("reason", reason).
		Str("ip", c.ClientIP()).
		Send()
}

func AuditUserinfoResolved(c *gin.Context, faydaID string) {
	Audit.Info().
		Str("event", "userinfo").
		Str("result", "success").
		Str("fayda_id", faydaID).
		Str("ip", c.ClientIP()).
		Send()
}

func AuditUserinfoFailure(c *gin.Context, attempts int) {
	Audit.Warn().
		Str("event", "userinfo").
		Str("result", "failure").
		Int("attempts", attempts).
		Str("ip", c.ClientIP()).
		Send()
}
