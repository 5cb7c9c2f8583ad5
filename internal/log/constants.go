package log

const (
	Args     = "args"
	Cmd      = "cmd"
	Count    = "count"
	Dir      = "dir"
	Duration = "duration"
	Error    = "error"
	Filename = "filename"
	Path     = "path"
	Pattern  = "pattern"
	RunID    = "run_id"
	Section  = "section"
	Table    = "table"
	Version  = "version"
)
