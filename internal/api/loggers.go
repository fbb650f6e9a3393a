package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/loglevel/internal/api/models"
	"github.com/smazurov/loglevel/internal/events"
	"github.com/smazurov/loglevel/pkg/format"
	"github.com/smazurov/loglevel/pkg/level"
	"github.com/smazurov/loglevel/pkg/loglevel"
)

func (s *Server) registerLoggerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-loggers",
		Method:      http.MethodGet,
		Path:        "/api/loggers",
		Summary:     "List Loggers",
		Description: "List the root logger and every named logger with their levels",
		Tags:        []string{"loggers"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, _ *struct{}) (*models.LoggerListResponse, error) {
		names := s.registry.Names()
		list := make([]models.LoggerData, 0, len(names)+1)
		list = append(list, loggerData(s.registry.Logger))
		for _, name := range names {
			if l, ok := s.registry.Lookup(name); ok {
				list = append(list, loggerData(l))
			}
		}
		return &models.LoggerListResponse{
			Body: models.LoggerListData{Loggers: list, Count: len(list)},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-root-level",
		Method:      http.MethodGet,
		Path:        "/api/root/level",
		Summary:     "Get Root Level",
		Description: "Get the root logger's current and default level",
		Tags:        []string{"loggers"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, _ *struct{}) (*models.LoggerResponse, error) {
		return &models.LoggerResponse{Body: loggerData(s.registry.Logger)}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-root-level",
		Method:      http.MethodPut,
		Path:        "/api/root/level",
		Summary:     "Set Root Level",
		Description: "Set the level of the root logger and of every existing named logger",
		Tags:        []string{"loggers"},
		Security:    withAuth(),
		Errors:      []int{401, 422},
	}, func(_ context.Context, input *models.SetRootLevelRequest) (*models.LoggerResponse, error) {
		lvl, err := parseLevel(input.Body.Level)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("invalid log level", err)
		}
		s.registry.SetLevel(lvl, input.Body.Persist)
		s.logger.Info("Root level changed", "level", lvl.String(), "persist", input.Body.Persist)
		return &models.LoggerResponse{Body: loggerData(s.registry.Logger)}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "reset-root-level",
		Method:      http.MethodDelete,
		Path:        "/api/root/level",
		Summary:     "Reset Root Level",
		Description: "Clear the root logger's saved level and restore its default",
		Tags:        []string{"loggers"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, _ *struct{}) (*models.LoggerResponse, error) {
		s.registry.ResetLevel()
		return &models.LoggerResponse{Body: loggerData(s.registry.Logger)}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-logger-level",
		Method:      http.MethodGet,
		Path:        "/api/loggers/{name}/level",
		Summary:     "Get Logger Level",
		Description: "Get a named logger's current and default level",
		Tags:        []string{"loggers"},
		Security:    withAuth(),
		Errors:      []int{401, 404},
	}, func(_ context.Context, input *models.LoggerPath) (*models.LoggerResponse, error) {
		l, ok := s.registry.Lookup(input.Name)
		if !ok {
			return nil, huma.Error404NotFound("logger not found: " + input.Name)
		}
		return &models.LoggerResponse{Body: loggerData(l)}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-logger-level",
		Method:      http.MethodPut,
		Path:        "/api/loggers/{name}/level",
		Summary:     "Set Logger Level",
		Description: "Set a named logger's level, creating the logger if needed",
		Tags:        []string{"loggers"},
		Security:    withAuth(),
		Errors:      []int{401, 422},
	}, func(_ context.Context, input *models.SetLoggerLevelRequest) (*models.LoggerResponse, error) {
		lvl, err := parseLevel(input.Body.Level)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("invalid log level", err)
		}
		l, err := s.registry.GetLogger(input.Name)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("invalid logger name", err)
		}
		l.SetLevel(lvl, input.Body.Persist)
		s.logger.Info("Logger level changed", "logger", input.Name, "level", lvl.String(), "persist", input.Body.Persist)
		return &models.LoggerResponse{Body: loggerData(l)}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "reset-logger-level",
		Method:      http.MethodDelete,
		Path:        "/api/loggers/{name}/level",
		Summary:     "Reset Logger Level",
		Description: "Clear a named logger's saved level and restore its default",
		Tags:        []string{"loggers"},
		Security:    withAuth(),
		Errors:      []int{401, 404},
	}, func(_ context.Context, input *models.LoggerPath) (*models.LoggerResponse, error) {
		l, ok := s.registry.Lookup(input.Name)
		if !ok {
			return nil, huma.Error404NotFound("logger not found: " + input.Name)
		}
		l.ResetLevel()
		return &models.LoggerResponse{Body: loggerData(l)}, nil
	})
}

func (s *Server) registerFormatterRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-formatter",
		Method:      http.MethodGet,
		Path:        "/api/root/formatter",
		Summary:     "Get Formatter",
		Description: "Get the root logger's formatter settings",
		Tags:        []string{"formatter"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, _ *struct{}) (*models.FormatterResponse, error) {
		return &models.FormatterResponse{Body: formatterData(s.registry.Formatter())}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-formatter",
		Method:      http.MethodPut,
		Path:        "/api/root/formatter",
		Summary:     "Set Formatter",
		Description: "Switch the formatter kind and toggle colors or timestamps for the root and every existing named logger. A kind switch starts from that kind's default settings.",
		Tags:        []string{"formatter"},
		Security:    withAuth(),
		Errors:      []int{401, 422},
	}, func(_ context.Context, input *models.FormatterRequest) (*models.FormatterResponse, error) {
		req := input.Body
		if req.Format != "" {
			kind := format.Kind(req.Format)
			if kind != format.KindOf(s.registry.Formatter()) {
				s.registry.SetFormatter(format.As(s.registry.Formatter(), kind))
			}
		}
		if req.Colors != nil {
			s.registry.UseColors(*req.Colors)
		}
		if req.Timestamps != nil {
			s.registry.UseTimestamps(*req.Timestamps)
		}

		data := formatterData(s.registry.Formatter())
		if s.eventBus != nil {
			s.eventBus.Publish(events.FormatterChangedEvent{
				Format:     data.Format,
				Colors:     data.Colors,
				Timestamps: data.Timestamps,
				Timestamp:  time.Now().UTC().Format(time.RFC3339),
			})
		}
		return &models.FormatterResponse{Body: data}, nil
	})
}

// parseLevel accepts a level name or its number.
func parseLevel(s string) (level.Level, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return level.Normalize(n)
	}
	return level.Normalize(s)
}

func loggerData(l *loglevel.Logger) models.LoggerData {
	lvl := l.Level()
	return models.LoggerData{
		Name:         l.Name(),
		Level:        lvl.String(),
		LevelValue:   int(lvl),
		DefaultLevel: l.DefaultLevel().String(),
		Persistent:   l.Storage() != nil,
	}
}

func formatterData(f format.Formatter) models.FormatterData {
	return models.FormatterData{
		Format:     string(format.KindOf(f)),
		Colors:     f.UsesColors(),
		Timestamps: f.IncludesTimestamps(),
	}
}
