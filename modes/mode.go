package modes

// Mode selects defaults that differ between tests and real runs, such as
// the log level and the step limit.
type Mode string

const (
	ModeProduction  Mode = "production"
	ModeDevelopment Mode = "development"
)

func (m Mode) IsDevelopment() bool {
	return m == ModeDevelopment
}
