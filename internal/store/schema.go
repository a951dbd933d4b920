package store

// schema is applied on every open; all statements are idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS counters (
	name  TEXT PRIMARY KEY,
	value INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS scenarios (
	scenario_id            TEXT PRIMARY KEY,
	scenario_name          TEXT NOT NULL,
	scenario_description   TEXT NOT NULL,
	questions_per_category INTEGER NOT NULL,
	created_at             TEXT NOT NULL,
	status                 TEXT NOT NULL,
	error_message          TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS scenario_questions (
	question_id TEXT NOT NULL,
	scenario_id TEXT NOT NULL,
	category    TEXT NOT NULL,
	question    TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	PRIMARY KEY (question_id, scenario_id)
);
CREATE INDEX IF NOT EXISTS idx_scenario_questions_scenario
	ON scenario_questions (scenario_id);

CREATE TABLE IF NOT EXISTS evaluation_reports (
	id                     TEXT PRIMARY KEY,
	name                   TEXT NOT NULL,
	description            TEXT NOT NULL DEFAULT '',
	endpoint               TEXT NOT NULL,
	headers                TEXT NOT NULL DEFAULT '{}',
	body_template          TEXT NOT NULL DEFAULT '{}',
	input_key              TEXT NOT NULL,
	output_key             TEXT NOT NULL,
	scenario_id            TEXT NOT NULL,
	copied_report_id       TEXT NOT NULL DEFAULT '',
	scenario_name          TEXT NOT NULL DEFAULT '',
	scenario_description   TEXT NOT NULL DEFAULT '',
	questions_per_category INTEGER NOT NULL DEFAULT 0,
	score                  TEXT NOT NULL DEFAULT '',
	score_breakdown        TEXT NOT NULL DEFAULT '{}',
	created_at             TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS report_questions (
	question_id      TEXT NOT NULL,
	report_id        TEXT NOT NULL,
	category         TEXT NOT NULL,
	question         TEXT NOT NULL,
	answer           TEXT NOT NULL,
	considerations   TEXT NOT NULL DEFAULT '',
	human_evaluation TEXT NOT NULL,
	score            INTEGER NOT NULL,
	comments         TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (question_id, report_id)
);
CREATE INDEX IF NOT EXISTS idx_report_questions_report
	ON report_questions (report_id);
`
