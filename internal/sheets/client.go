package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/chronosphere777/chronosphere/internal/domain"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Fetcher reads one range from one named spreadsheet. sheetGID selects a
// gid-addressed worksheet; nil means the first sheet.
type Fetcher interface {
	ReadRange(ctx context.Context, spreadsheetID, readRange string, sheetGID *int64) ([][]string, error)
}

type Service struct {
	service *sheets.Service
}

type Config struct {
	CredentialsJSON []byte
}

func New(cfg Config) (*Service, error) {
	ctx := context.Background()

	service, err := sheets.NewService(ctx, option.WithCredentialsJSON(cfg.CredentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Service{
		service: service,
	}, nil
}

func (s *Service) ReadRange(ctx context.Context, spreadsheetID, readRange string, sheetGID *int64) ([][]string, error) {
	// The service boots without credentials; a nil client is a legal
	// degraded state and reads against it must error, not panic.
	if s == nil || s.service == nil {
		return nil, fmt.Errorf("spreadsheet: %w", domain.ErrSourceUnavailable)
	}

	fullRange := readRange
	if sheetGID != nil {
		title, err := s.sheetTitleByGID(ctx, spreadsheetID, *sheetGID)
		if err != nil {
			return nil, err
		}
		fullRange = fmt.Sprintf("'%s'!%s", title, readRange)
	}

	resp, err := s.service.Spreadsheets.Values.Get(spreadsheetID, fullRange).Context(ctx).Do()
	if err != nil {
		return nil, classify(err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, v := range raw {
			row[i] = fmt.Sprintf("%v", v)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func (s *Service) sheetTitleByGID(ctx context.Context, spreadsheetID string, gid int64) (string, error) {
	meta, err := s.service.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return "", classify(err)
	}

	for _, sheet := range meta.Sheets {
		if sheet.Properties != nil && sheet.Properties.SheetId == gid {
			return sheet.Properties.Title, nil
		}
	}

	return "", fmt.Errorf("sheet gid %d: %w", gid, domain.ErrNotFound)
}

func classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusNotFound:
			return fmt.Errorf("spreadsheet: %w", domain.ErrNotFound)
		case http.StatusTooManyRequests:
			return fmt.Errorf("spreadsheet: %w", domain.ErrQuotaExceeded)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("spreadsheet: %w", domain.ErrAuth)
		}
	}
	return fmt.Errorf("failed to read spreadsheet: %w", err)
}
