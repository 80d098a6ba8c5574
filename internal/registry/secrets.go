package registry

import "regexp"

// Severity levels for secret patterns.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// defaultSecrets is the ordered credential detection table. Order matters:
// the first pattern matching a line claims it.
var defaultSecrets = []SecretPattern{
	{
		ID:       "aws-access-key-id",
		Type:     "aws_key",
		Severity: SeverityCritical,
		Pattern:  regexp.MustCompile(`(?:AKIA|ABIA|ACCA|ASIA)[A-Z0-9]{16}`),
	},
	{
		ID:       "aws-secret-access-key",
		Type:     "aws_key",
		Severity: SeverityCritical,
		Pattern:  regexp.MustCompile(`(?i)aws[_-]?secret[_-]?(?:access[_-]?)?key\s*[:=]\s*['"]([A-Za-z0-9/+=]{20,})['"]`),
	},
	{
		ID:       "private-key-block",
		Type:     "private_key_block",
		Severity: SeverityCritical,
		Pattern:  regexp.MustCompile(`-----BEGIN (?:RSA |EC |DSA |OPENSSH )?PRIVATE KEY-----`),
	},
	{
		ID:       "github-token",
		Type:     "token",
		Severity: SeverityCritical,
		Pattern:  regexp.MustCompile(`(?:ghp|gho|ghu|ghs|ghr)_[A-Za-z0-9_]{36,}`),
	},
	{
		ID:       "stripe-key",
		Type:     "api_key",
		Severity: SeverityCritical,
		Pattern:  regexp.MustCompile(`(?:sk|pk)_(?:test|live)_[A-Za-z0-9]{20,}`),
	},
	{
		ID:       "google-api-key",
		Type:     "api_key",
		Severity: SeverityHigh,
		Pattern:  regexp.MustCompile(`AIza[A-Za-z0-9_\-]{35}`),
	},
	{
		ID:       "slack-token",
		Type:     "token",
		Severity: SeverityHigh,
		Pattern:  regexp.MustCompile(`xox[bpors]-[A-Za-z0-9\-]{10,}`),
	},
	{
		ID:       "sendgrid-key",
		Type:     "api_key",
		Severity: SeverityHigh,
		Pattern:  regexp.MustCompile(`SG\.[A-Za-z0-9_\-]{22}\.[A-Za-z0-9_\-]{43}`),
	},
	{
		ID:       "hardcoded-jwt",
		Type:     "token",
		Severity: SeverityHigh,
		Pattern:  regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_\-+/=]{10,}`),
	},
	{
		ID:       "database-url",
		Type:     "generic_secret_assignment",
		Severity: SeverityHigh,
		Pattern:  regexp.MustCompile(`(?i)(?:postgres(?:ql)?|mysql|mongodb(?:\+srv)?|redis)://[^\s'"]+`),
	},
	{
		ID:       "generic-api-key",
		Type:     "api_key",
		Severity: SeverityHigh,
		Pattern:  regexp.MustCompile(`(?i)(?:api[_-]?key|apikey)\s*[:=]\s*['"]([A-Za-z0-9_\-]{20,})['"]`),
	},
	{
		ID:       "generic-secret",
		Type:     "token",
		Severity: SeverityHigh,
		Pattern:  regexp.MustCompile(`(?i)(?:secret|token|auth[_-]?token|access[_-]?token|bearer)\s*[:=]\s*['"]([A-Za-z0-9_\-/.+=]{20,})['"]`),
	},
	{
		ID:       "password-assignment",
		Type:     "password",
		Severity: SeverityHigh,
		Pattern:  regexp.MustCompile(`(?i)(?:password|passwd|pwd)\s*[:=]\s*['"]([^'"]{6,})['"]`),
	},
	{
		ID:       "heroku-api-key",
		Type:     "api_key",
		Severity: SeverityHigh,
		Pattern:  regexp.MustCompile(`(?i)heroku[_-]?api[_-]?key\s*[:=]\s*['"]([A-Za-z0-9\-]{36,})['"]`),
	},
	{
		ID:       "env-secret-assignment",
		Type:     "generic_secret_assignment",
		Severity: SeverityHigh,
		Pattern:  regexp.MustCompile(`(?m)^(?:export\s+)?(?:SECRET|TOKEN|API_KEY|PRIVATE_KEY|DB_PASS|DATABASE_URL)\s*=\s*['"]?([^\s'"#]+)`),
	},
	{
		ID:       "firebase-config",
		Type:     "api_key",
		Severity: SeverityMedium,
		Pattern:  regexp.MustCompile(`(?i)firebase[_-]?(?:api[_-]?key|auth[_-]?domain|project[_-]?id|storage[_-]?bucket)\s*[:=]\s*['"]([^'"]+)['"]`),
	},
	{
		ID:       "twilio-key",
		Type:     "api_key",
		Severity: SeverityMedium,
		Pattern:  regexp.MustCompile(`\bSK[a-f0-9]{32}\b`),
	},
	{
		ID:       "basic-auth-url",
		Type:     "password",
		Severity: SeverityMedium,
		Pattern:  regexp.MustCompile(`(?i)https?://[^\s'"/:@]+:[^\s'"@]+@[^\s'"]+`),
	},
}

// pemEndPattern closes a multi-line private key block.
var PEMEndPattern = regexp.MustCompile(`-----END (?:RSA |EC |DSA |OPENSSH )?PRIVATE KEY-----`)
