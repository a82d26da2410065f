package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/TRHS-OMNIA/crew-backend/internal/dto"
	"github.com/TRHS-OMNIA/crew-backend/internal/model"
	"github.com/TRHS-OMNIA/crew-backend/internal/repository"
)

// importHeaders are the required columns of a roster upload, in any order.
var importHeaders = []string{"u_id", "last_name", "first_name", "nickname", "grade", "period", "class"}

// UserService covers the admin roster: listing and bulk import.
type UserService interface {
	List(ctx context.Context) ([]dto.UserRecord, error)
	// Import parses an uploaded roster file (.xlsx or .csv) and inserts the
	// new users. Rows for users already on file, and rows that fail to
	// parse, are skipped with a reason rather than aborting the batch.
	Import(ctx context.Context, r io.Reader, filename string) (*dto.ImportReport, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService creates a UserService instance.
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) List(ctx context.Context) ([]dto.UserRecord, error) {
	users, err := s.repo.User.List(ctx)
	if err != nil {
		s.logger.Error("list users failed", zap.Error(err))
		return nil, err
	}

	list := make([]dto.UserRecord, 0, len(users))
	for i := range users {
		u := &users[i]
		list = append(list, dto.UserRecord{
			ID:        u.ID,
			LastName:  u.LastName,
			FirstName: u.FirstName,
			Nickname:  u.Nickname,
			Grade:     u.Grade,
			Period:    u.Period,
			Class:     u.Class,
		})
	}
	return list, nil
}

func (s *userService) Import(ctx context.Context, r io.Reader, filename string) (*dto.ImportReport, error) {
	rows, err := readImportRows(r, filename)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("import file is empty")
	}

	cols, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	report := &dto.ImportReport{}
	var batch []model.User
	seen := make(map[string]bool)

	for i, row := range rows[1:] {
		// Row numbers in the report match what the admin sees in the file.
		rowNum := i + 2

		user, err := parseImportRow(row, cols)
		if err != nil {
			report.Skipped = append(report.Skipped, dto.ImportSkip{Row: rowNum, Reason: err.Error()})
			continue
		}
		if seen[user.ID] {
			report.Skipped = append(report.Skipped, dto.ImportSkip{Row: rowNum, Reason: "duplicate id in file"})
			continue
		}
		seen[user.ID] = true

		if _, err := s.repo.User.GetByID(ctx, user.ID); err == nil {
			report.Skipped = append(report.Skipped, dto.ImportSkip{Row: rowNum, Reason: "already on file"})
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		batch = append(batch, user)
	}

	if err := s.repo.User.BatchCreate(ctx, batch); err != nil {
		s.logger.Error("import users failed", zap.Int("rows", len(batch)), zap.Error(err))
		return nil, err
	}
	report.Created = len(batch)

	s.logger.Info("imported users",
		zap.String("file", filename),
		zap.Int("created", report.Created),
		zap.Int("skipped", len(report.Skipped)),
	)
	return report, nil
}

// readImportRows flattens the upload into string rows; .xlsx reads the first
// sheet, anything else is treated as CSV.
func readImportRows(r io.Reader, filename string) ([][]string, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("open workbook: %w", err)
		}
		defer f.Close()

		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		rows, err := f.GetRows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
		}
		return rows, nil
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

// headerIndex maps required column names to their positions.
func headerIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, h := range importHeaders {
		if _, ok := cols[h]; !ok {
			return nil, fmt.Errorf("missing column %q", h)
		}
	}
	return cols, nil
}

func parseImportRow(row []string, cols map[string]int) (model.User, error) {
	cell := func(name string) string {
		i := cols[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	id := cell("u_id")
	if id == "" {
		return model.User{}, errors.New("missing u_id")
	}
	last := cell("last_name")
	first := cell("first_name")
	if last == "" || first == "" {
		return model.User{}, errors.New("missing name")
	}

	grade, err := strconv.Atoi(cell("grade"))
	if err != nil {
		return model.User{}, fmt.Errorf("bad grade %q", cell("grade"))
	}
	period, err := strconv.Atoi(cell("period"))
	if err != nil {
		return model.User{}, fmt.Errorf("bad period %q", cell("period"))
	}

	user := model.User{
		ID:        id,
		LastName:  last,
		FirstName: first,
		Grade:     grade,
		Period:    period,
	}
	if nick := cell("nickname"); nick != "" {
		user.Nickname = &nick
	}
	if class := cell("class"); class != "" {
		user.Class = &class
	}
	return user, nil
}
