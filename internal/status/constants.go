package status

// ---- HEALTH CODES ----

// HealthUnknown represents a sink that has not been invoked yet.
const HealthUnknown uint16 = 0

// HealthOK represents a sink whose last invocation succeeded.
const HealthOK uint16 = 1

// HealthError represents a sink whose last invocation failed.
const HealthError uint16 = 2

// HealthName returns a short label for logs.
func HealthName(h uint16) string {
	switch h {
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	default:
		return "unknown"
	}
}
