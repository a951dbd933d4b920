package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ahrav/rai-eval/internal/domain"
)

// timeFormat is how timestamps are persisted. RFC3339 sorts correctly as
// text, which the listing surfaces rely on.
const timeFormat = time.RFC3339

// SQLiteStore is the durable Store implementation.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// Open opens (creating if needed) the sqlite database at path and applies
// the schema. WAL mode plus a busy timeout keeps concurrent counter
// allocation from surfacing SQLITE_BUSY to callers.
func Open(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// nextID atomically increments the named counter and returns the new
// value. The upsert seeds a fresh counter at 1.
func (s *SQLiteStore) nextID(ctx context.Context, name string) (int64, error) {
	var value int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO counters (name, value) VALUES (?, 1)
		ON CONFLICT (name) DO UPDATE SET value = value + 1
		RETURNING value`, name).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("incrementing counter %s: %w", name, err)
	}
	return value, nil
}

func (s *SQLiteStore) NextScenarioID(ctx context.Context) (int64, error) {
	return s.nextID(ctx, counterScenarios)
}

func (s *SQLiteStore) NextScenarioQuestionID(ctx context.Context) (int64, error) {
	return s.nextID(ctx, counterScenarioQuestions)
}

func (s *SQLiteStore) NextReportID(ctx context.Context) (int64, error) {
	return s.nextID(ctx, counterReports)
}

func (s *SQLiteStore) NextReportQuestionID(ctx context.Context) (int64, error) {
	return s.nextID(ctx, counterReportQuestions)
}

func (s *SQLiteStore) PutScenario(ctx context.Context, sc domain.Scenario) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO scenarios
			(scenario_id, scenario_name, scenario_description, questions_per_category, created_at, status, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sc.ID, sc.Name, sc.Description, sc.QuestionsPerCategory,
		sc.CreatedAt.Format(timeFormat), string(sc.Status), sc.ErrorMessage)
	return err
}

func (s *SQLiteStore) GetScenario(ctx context.Context, id string) (domain.Scenario, error) {
	var sc domain.Scenario
	var createdAt, status string
	err := s.db.QueryRowContext(ctx, `
		SELECT scenario_id, scenario_name, scenario_description, questions_per_category, created_at, status, error_message
		FROM scenarios WHERE scenario_id = ?`, id).
		Scan(&sc.ID, &sc.Name, &sc.Description, &sc.QuestionsPerCategory, &createdAt, &status, &sc.ErrorMessage)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Scenario{}, domain.ErrScenarioNotFound
	}
	if err != nil {
		return domain.Scenario{}, err
	}
	sc.Status = domain.ScenarioStatus(status)
	sc.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	return sc, nil
}

func (s *SQLiteStore) UpdateScenarioStatus(ctx context.Context, id string, status domain.ScenarioStatus, errorMessage string) error {
	// Conditional on PROCESSING so terminal states are never reversed.
	res, err := s.db.ExecContext(ctx, `
		UPDATE scenarios SET status = ?, error_message = ?
		WHERE scenario_id = ? AND status = ?`,
		string(status), errorMessage, id, string(domain.ScenarioProcessing))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists int
		if err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM scenarios WHERE scenario_id = ?`, id).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return domain.ErrScenarioNotFound
		}
		return domain.ErrInvalidTransition
	}
	return nil
}

func (s *SQLiteStore) PutScenarioQuestion(ctx context.Context, q domain.ScenarioQuestion) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO scenario_questions
			(question_id, scenario_id, category, question, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		q.QuestionID, q.ScenarioID, q.Category, q.Text, q.CreatedAt.Format(timeFormat))
	return err
}

func (s *SQLiteStore) ListScenarioQuestions(ctx context.Context, scenarioID string) ([]domain.ScenarioQuestion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT question_id, scenario_id, category, question, created_at
		FROM scenario_questions WHERE scenario_id = ?
		ORDER BY CAST(question_id AS INTEGER)`, scenarioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []domain.ScenarioQuestion
	for rows.Next() {
		var q domain.ScenarioQuestion
		var createdAt string
		if err := rows.Scan(&q.QuestionID, &q.ScenarioID, &q.Category, &q.Text, &createdAt); err != nil {
			return nil, err
		}
		q.CreatedAt, _ = time.Parse(timeFormat, createdAt)
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (s *SQLiteStore) PutReport(ctx context.Context, r domain.EvaluationReport) error {
	headers, err := json.Marshal(r.Target.Headers)
	if err != nil {
		return fmt.Errorf("marshaling headers: %w", err)
	}
	bodyTemplate, err := r.Target.MarshalBodyTemplate()
	if err != nil {
		return fmt.Errorf("marshaling body template: %w", err)
	}
	breakdown, err := json.Marshal(r.ScoreBreakdown)
	if err != nil {
		return fmt.Errorf("marshaling score breakdown: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO evaluation_reports
			(id, name, description, endpoint, headers, body_template, input_key, output_key,
			 scenario_id, copied_report_id, scenario_name, scenario_description,
			 questions_per_category, score, score_breakdown, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Name, r.Description, r.Target.Endpoint, string(headers), string(bodyTemplate),
		r.Target.InputKey, r.Target.OutputKey, r.ScenarioID, r.CopiedReportID,
		r.Snapshot.Name, r.Snapshot.Description, r.Snapshot.QuestionsPerCategory,
		r.Score, string(breakdown), r.CreatedAt.Format(timeFormat))
	return err
}

func (s *SQLiteStore) GetReport(ctx context.Context, id string) (domain.EvaluationReport, error) {
	var r domain.EvaluationReport
	var headers, bodyTemplate, breakdown, createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, endpoint, headers, body_template, input_key, output_key,
		       scenario_id, copied_report_id, scenario_name, scenario_description,
		       questions_per_category, score, score_breakdown, created_at
		FROM evaluation_reports WHERE id = ?`, id).
		Scan(&r.ID, &r.Name, &r.Description, &r.Target.Endpoint, &headers, &bodyTemplate,
			&r.Target.InputKey, &r.Target.OutputKey, &r.ScenarioID, &r.CopiedReportID,
			&r.Snapshot.Name, &r.Snapshot.Description, &r.Snapshot.QuestionsPerCategory,
			&r.Score, &breakdown, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.EvaluationReport{}, domain.ErrReportNotFound
	}
	if err != nil {
		return domain.EvaluationReport{}, err
	}

	if err := json.Unmarshal([]byte(headers), &r.Target.Headers); err != nil {
		return domain.EvaluationReport{}, fmt.Errorf("unmarshaling headers: %w", err)
	}
	if err := json.Unmarshal([]byte(bodyTemplate), &r.Target.BodyTemplate); err != nil {
		return domain.EvaluationReport{}, fmt.Errorf("unmarshaling body template: %w", err)
	}
	if err := json.Unmarshal([]byte(breakdown), &r.ScoreBreakdown); err != nil {
		return domain.EvaluationReport{}, fmt.Errorf("unmarshaling score breakdown: %w", err)
	}
	r.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	return r, nil
}

func (s *SQLiteStore) UpdateReportScores(ctx context.Context, id, score string, breakdown map[string]string) error {
	encoded, err := json.Marshal(breakdown)
	if err != nil {
		return fmt.Errorf("marshaling score breakdown: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE evaluation_reports SET score = ?, score_breakdown = ? WHERE id = ?`,
		score, string(encoded), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrReportNotFound
	}
	return nil
}

func (s *SQLiteStore) PutReportQuestion(ctx context.Context, q domain.ReportQuestion) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO report_questions
			(question_id, report_id, category, question, answer, considerations, human_evaluation, score, comments)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.QuestionID, q.ReportID, q.Category, q.Question, q.Answer,
		q.Considerations, string(q.HumanEvaluation), q.Score, q.Comments)
	return err
}

func (s *SQLiteStore) ListReportQuestions(ctx context.Context, reportID string) ([]domain.ReportQuestion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT question_id, report_id, category, question, answer, considerations, human_evaluation, score, comments
		FROM report_questions WHERE report_id = ?
		ORDER BY CAST(question_id AS INTEGER)`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []domain.ReportQuestion
	for rows.Next() {
		var q domain.ReportQuestion
		var eval string
		if err := rows.Scan(&q.QuestionID, &q.ReportID, &q.Category, &q.Question, &q.Answer,
			&q.Considerations, &eval, &q.Score, &q.Comments); err != nil {
			return nil, err
		}
		q.HumanEvaluation = domain.HumanEvaluation(eval)
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (s *SQLiteStore) UpdateQuestionEvaluation(ctx context.Context, reportID, questionID string, score int, eval domain.HumanEvaluation) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE report_questions SET score = ?, human_evaluation = ?
		WHERE report_id = ? AND question_id = ?`,
		score, string(eval), reportID, questionID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (s *SQLiteStore) UpdateQuestionComments(ctx context.Context, reportID, questionID, comments string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE report_questions SET comments = ?
		WHERE report_id = ? AND question_id = ?`,
		comments, reportID, questionID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}
