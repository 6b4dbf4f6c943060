// Package sqlstore is the MySQL-backed event store. Records keep their
// insertion order through an auto-increment sequence column; participants are
// stored as the same ordered JSON object used on the wire.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"splitledger/internal/models"
)

const queryTimeout = 5 * time.Second

// Connect opens a MySQL connection from DB_* environment variables and
// verifies it with a ping.
func Connect() (*sql.DB, error) {
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	port := os.Getenv("DB_PORT")
	host := os.Getenv("DB_HOST")

	connectionString := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", user, password, host, port, dbname)

	db, err := sql.Open("mysql", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB connection: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return db, nil
}

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the tables if they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS expenses (
			seq BIGINT AUTO_INCREMENT PRIMARY KEY,
			id VARCHAR(64) NOT NULL UNIQUE,
			description TEXT NOT NULL,
			amount DECIMAL(12,2) NOT NULL,
			payer VARCHAR(128) NOT NULL,
			participants JSON NOT NULL,
			split_mode VARCHAR(32) NOT NULL,
			notes TEXT NOT NULL,
			` + "`date`" + ` DATETIME(6) NOT NULL,
			group_id VARCHAR(64) NULL
		)`,
		`CREATE TABLE IF NOT EXISTS settlements (
			seq BIGINT AUTO_INCREMENT PRIMARY KEY,
			id VARCHAR(64) NOT NULL UNIQUE,
			payer VARCHAR(128) NOT NULL,
			payee VARCHAR(128) NOT NULL,
			amount DECIMAL(12,2) NOT NULL,
			description TEXT NOT NULL,
			` + "`date`" + ` DATETIME(6) NOT NULL,
			notes TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			username VARCHAR(128) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			password VARCHAR(255) NOT NULL
		)`,
		"CREATE TABLE IF NOT EXISTS `groups` (id VARCHAR(64) PRIMARY KEY, name VARCHAR(255) NOT NULL)",
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

func (s *Store) AppendExpense(exp models.Expense) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	participants, err := json.Marshal(exp.Participants)
	if err != nil {
		return fmt.Errorf("failed to encode participants: %w", err)
	}

	groupID := sql.NullString{String: exp.GroupID, Valid: exp.GroupID != ""}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO expenses (id, description, amount, payer, participants, split_mode, notes, `date`, group_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		exp.ID, exp.Description, exp.Amount, exp.Payer, participants, exp.SplitMode, exp.Notes, exp.Date.UTC(), groupID)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

func (s *Store) AppendSettlement(st models.Settlement) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO settlements (id, payer, payee, amount, description, `date`, notes) VALUES (?, ?, ?, ?, ?, ?, ?)",
		st.ID, st.Payer, st.Payee, st.Amount, st.Description, st.Date.UTC(), st.Notes)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	return nil
}

func (s *Store) Expenses() ([]models.Expense, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, description, amount, payer, participants, split_mode, notes, `date`, group_id FROM expenses ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var out []models.Expense
	for rows.Next() {
		var (
			exp          models.Expense
			participants []byte
			groupID      sql.NullString
		)
		if err := rows.Scan(&exp.ID, &exp.Description, &exp.Amount, &exp.Payer,
			&participants, &exp.SplitMode, &exp.Notes, &exp.Date, &groupID); err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		if err := json.Unmarshal(participants, &exp.Participants); err != nil {
			return nil, fmt.Errorf("failed to decode participants for expense %s: %w", exp.ID, err)
		}
		exp.GroupID = groupID.String
		out = append(out, exp)
	}
	return out, rows.Err()
}

func (s *Store) Settlements() ([]models.Settlement, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, payer, payee, amount, description, `date`, notes FROM settlements ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query settlements: %w", err)
	}
	defer rows.Close()

	var out []models.Settlement
	for rows.Next() {
		var st models.Settlement
		if err := rows.Scan(&st.ID, &st.Payer, &st.Payee, &st.Amount,
			&st.Description, &st.Date, &st.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan settlement row: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *Store) AddUser(user models.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var exists bool
	err := s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)", user.Username).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if exists {
		return models.ErrUserExists
	}

	_, err = s.db.ExecContext(ctx, "INSERT INTO users (username, name, password) VALUES (?, ?, ?)",
		user.Username, user.Name, user.Password)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(username string) (models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var user models.User
	err := s.db.QueryRowContext(ctx, "SELECT username, name, password FROM users WHERE username = ?", username).
		Scan(&user.Username, &user.Name, &user.Password)
	if err == sql.ErrNoRows {
		return models.User{}, models.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (s *Store) Users() ([]models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, "SELECT username, name, password FROM users")
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.Username, &user.Name, &user.Password); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

func (s *Store) AddGroup(group models.Group) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var exists bool
	err := s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM `groups` WHERE id = ?)", group.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check group: %w", err)
	}
	if exists {
		return models.ErrGroupExists
	}

	_, err = s.db.ExecContext(ctx, "INSERT INTO `groups` (id, name) VALUES (?, ?)", group.ID, group.Name)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}
	return nil
}

func (s *Store) GetGroup(id string) (models.Group, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var group models.Group
	err := s.db.QueryRowContext(ctx, "SELECT id, name FROM `groups` WHERE id = ?", id).
		Scan(&group.ID, &group.Name)
	if err == sql.ErrNoRows {
		return models.Group{}, models.ErrGroupNotFound
	}
	if err != nil {
		return models.Group{}, fmt.Errorf("failed to query group: %w", err)
	}
	return group, nil
}

func (s *Store) Groups() ([]models.Group, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM `groups`")
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	var out []models.Group
	for rows.Next() {
		var group models.Group
		if err := rows.Scan(&group.ID, &group.Name); err != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", err)
		}
		out = append(out, group)
	}
	return out, rows.Err()
}
