package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// formatMode переводит режим в строку для File.FormatPath.
func (m PathMode) formatMode() string {
	switch m {
	case PathModeAbsolute:
		return "absolute"
	case PathModeRelative:
		return "relative"
	case PathModeBasename:
		return "basename"
	default:
		return "auto"
	}
}

// PrettyOpts configures pretty-printing of balance reports.
type PrettyOpts struct {
	Color    bool
	PathMode PathMode
	Width    int // максимальная ширина сниппета, 0 - не ограничено
}

// JSONOpts configures JSON output of balance reports.
type JSONOpts struct {
	PathMode       PathMode
	IncludeContext bool // включить контекстные окна в вывод
}
