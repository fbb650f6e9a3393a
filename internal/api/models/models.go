package models

import "time"

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

// Version models
type VersionData struct {
	Version   string `json:"version" example:"dev" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"abc123" doc:"Git commit hash"`
	BuildDate string `json:"build_date" example:"2025-01-27T10:30:00Z" doc:"Build timestamp"`
	BuildID   string `json:"build_id" example:"42" doc:"Build identifier"`
	GoVersion string `json:"go_version" example:"go1.24.0" doc:"Go compiler version"`
	Compiler  string `json:"compiler" example:"gc" doc:"Go compiler"`
	Platform  string `json:"platform" example:"linux/amd64" doc:"Target platform"`
}

type VersionResponse struct {
	Body VersionData
}

// Logger models
type LoggerData struct {
	Name         string `json:"name" example:"api" doc:"Logger name, empty for the root logger"`
	Level        string `json:"level" example:"warn" doc:"Current level name"`
	LevelValue   int    `json:"level_value" example:"3" doc:"Current level number, 0 (trace) to 5 (silent)"`
	DefaultLevel string `json:"default_level" example:"warn" doc:"Level restored by a reset"`
	Persistent   bool   `json:"persistent" doc:"Whether the logger saves its level"`
}

type LoggerListData struct {
	Loggers []LoggerData `json:"loggers" doc:"Root logger followed by every named logger, sorted by name"`
	Count   int          `json:"count" example:"3" doc:"Number of loggers including the root"`
}

type LoggerListResponse struct {
	Body LoggerListData
}

type LoggerResponse struct {
	Body LoggerData
}

// LoggerPath selects a named logger.
type LoggerPath struct {
	Name string `path:"name" minLength:"1" example:"api" doc:"Logger name"`
}

type LevelRequestData struct {
	Level   string `json:"level" minLength:"1" example:"debug" doc:"Level name (trace, debug, info, warn, error, silent) or number 0-5"`
	Persist bool   `json:"persist,omitempty" doc:"Save the level so it survives a restart"`
}

type SetRootLevelRequest struct {
	Body LevelRequestData
}

type SetLoggerLevelRequest struct {
	LoggerPath
	Body LevelRequestData
}

// Formatter models
type FormatterData struct {
	Format     string `json:"format" enum:"default,minimal,json" example:"default" doc:"Formatter kind"`
	Colors     bool   `json:"colors" doc:"Whether level prefixes are colored"`
	Timestamps bool   `json:"timestamps" doc:"Whether lines carry a timestamp"`
}

type FormatterRequestData struct {
	Format     string `json:"format,omitempty" enum:"default,minimal,json" example:"json" doc:"Formatter kind, unchanged when omitted"`
	Colors     *bool  `json:"colors,omitempty" doc:"Enable or disable colored prefixes"`
	Timestamps *bool  `json:"timestamps,omitempty" doc:"Enable or disable timestamps"`
}

type FormatterRequest struct {
	Body FormatterRequestData
}

type FormatterResponse struct {
	Body FormatterData
}

// Output models
type OutputLine struct {
	Time   time.Time `json:"time" doc:"When the line was printed"`
	Method string    `json:"method" example:"warn" doc:"Console method"`
	Line   string    `json:"line" example:"[WARN] [api]: slow request" doc:"Rendered line"`
}

type OutputData struct {
	Lines []OutputLine `json:"lines" doc:"Recent lines, oldest first"`
	Count int          `json:"count" example:"2" doc:"Number of lines returned"`
}

type OutputRequest struct {
	Limit int `query:"limit" minimum:"0" example:"100" doc:"Return at most this many of the newest lines, 0 for all"`
}

type OutputResponse struct {
	Body OutputData
}
