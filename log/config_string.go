package log

import "strconv"

var levelName = map[Level]string{
	LevelTrace: "trace",
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
}

func (l Level) String() string {
	if name, ok := levelName[l]; ok {
		return name
	}

	return "Level(" + strconv.Itoa(int(l)) + ")"
}

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	}

	return "Format(" + strconv.Itoa(int(f)) + ")"
}
