package database

import (
	"context"
	"database/sql"
)

// schemaStatements bootstraps the scheduling tables. Statements are
// idempotent so the server can run them on every start. day_of_week is
// 1=Monday .. 5=Friday; start_time is stored as 'HH:MM' text -- the core
// works in minutes since midnight and converts at this boundary.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS semesters (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		name VARCHAR(64) NOT NULL,
		year INT NOT NULL,
		order_in_year INT NOT NULL,
		is_active TINYINT(1) NOT NULL DEFAULT 0
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS specializations (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		name VARCHAR(128) NOT NULL,
		room_type_id BIGINT NOT NULL
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS courses (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		code VARCHAR(32) NOT NULL,
		name VARCHAR(128) NOT NULL,
		credits INT NOT NULL,
		hours_per_week INT NOT NULL,
		specialization_id BIGINT NOT NULL,
		prerequisite_id BIGINT NULL,
		semester_order INT NOT NULL,
		grade_level_min INT NOT NULL,
		grade_level_max INT NOT NULL
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS teachers (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		first_name VARCHAR(64) NOT NULL,
		last_name VARCHAR(64) NOT NULL,
		specialization_id BIGINT NOT NULL,
		max_daily_hours INT NOT NULL DEFAULT 4
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS classrooms (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		name VARCHAR(64) NOT NULL,
		room_type_id BIGINT NOT NULL,
		capacity INT NOT NULL
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS students (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		first_name VARCHAR(64) NOT NULL,
		last_name VARCHAR(64) NOT NULL,
		grade_level INT NOT NULL
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS student_course_history (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		student_id BIGINT NOT NULL,
		course_id BIGINT NOT NULL,
		status VARCHAR(16) NOT NULL
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS sections (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		course_id BIGINT NOT NULL,
		teacher_id BIGINT NOT NULL,
		room_id BIGINT NOT NULL,
		semester_id BIGINT NOT NULL,
		section_number INT NOT NULL,
		capacity INT NOT NULL DEFAULT 10,
		UNIQUE KEY uq_section (course_id, semester_id, section_number),
		KEY idx_sections_semester (semester_id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS section_meetings (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		section_id BIGINT NOT NULL,
		day_of_week INT NOT NULL,
		start_time VARCHAR(5) NOT NULL,
		duration_minutes INT NOT NULL,
		KEY idx_meetings_section (section_id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS student_enrollments (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		student_id BIGINT NOT NULL,
		section_id BIGINT NOT NULL,
		UNIQUE KEY uq_enrollment (student_id, section_id),
		KEY idx_enrollments_section (section_id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY AUTO_INCREMENT,
		email VARCHAR(190) NOT NULL UNIQUE,
		password_hash VARCHAR(100) NOT NULL,
		role VARCHAR(16) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB`,
}

// EnsureSchema creates any missing tables and indexes.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
