package database

import (
	"database/sql"
	stdlog "log"

	"github.com/manideepv28/wealthwizard/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	if logger.L != nil {
		logger.L.Info("Ensuring database schema", "databasePath", databasePath)
	} else {
		stdlog.Println("Ensuring database schema for:", databasePath)
	}

	if err := CreateSchema(DB); err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	migrateFundsTable()

	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.")
	}
}

// CreateSchema creates all tables and indexes. It is exported so tests can
// build the same schema on an in-memory database.
func CreateSchema(db *sql.DB) error {
	createTableStatement := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		token TEXT NOT NULL,
		refresh_token TEXT NOT NULL,
		user_agent TEXT,
		client_ip TEXT,
		is_blocked BOOLEAN DEFAULT FALSE,
		expires_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS funds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		amc TEXT NOT NULL,
		current_nav REAL NOT NULL,
		expense_ratio REAL,
		risk_level TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ref_id TEXT NOT NULL,
		user_id INTEGER NOT NULL,
		fund_id INTEGER NOT NULL,
		kind TEXT NOT NULL,
		amount REAL NOT NULL,
		units REAL,
		nav REAL,
		status TEXT NOT NULL DEFAULT 'completed',
		date TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id),
		FOREIGN KEY(fund_id) REFERENCES funds(id),
		UNIQUE(user_id, ref_id)
	);
	CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions(user_id);

	CREATE TABLE IF NOT EXISTS holdings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		fund_id INTEGER NOT NULL,
		units REAL NOT NULL,
		avg_nav REAL NOT NULL,
		total_invested REAL NOT NULL,
		FOREIGN KEY(user_id) REFERENCES users(id),
		FOREIGN KEY(fund_id) REFERENCES funds(id),
		UNIQUE(user_id, fund_id)
	);
	CREATE INDEX IF NOT EXISTS idx_holdings_user ON holdings(user_id);

	CREATE TABLE IF NOT EXISTS sip_plans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		fund_id INTEGER NOT NULL,
		amount REAL NOT NULL,
		frequency TEXT NOT NULL,
		is_active BOOLEAN DEFAULT TRUE,
		next_date TIMESTAMP NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id),
		FOREIGN KEY(fund_id) REFERENCES funds(id)
	);
	CREATE INDEX IF NOT EXISTS idx_sip_plans_user ON sip_plans(user_id);

	CREATE TABLE IF NOT EXISTS alerts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		kind TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		is_read BOOLEAN DEFAULT FALSE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id)
	);
	CREATE INDEX IF NOT EXISTS idx_alerts_user ON alerts(user_id);
	`

	_, err := db.Exec(createTableStatement)
	return err
}

// migrateFundsTable adds columns introduced after the first release. Sqlite
// has no ADD COLUMN IF NOT EXISTS, so the existing columns are inspected first.
func migrateFundsTable() {
	var tableName string
	err := DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='funds'").Scan(&tableName)
	if err != nil {
		if err == sql.ErrNoRows {
			return
		}
		if logger.L != nil {
			logger.L.Error("Error checking for 'funds' table", "error", err)
		}
		return
	}

	rows, err := DB.Query("PRAGMA table_info(funds)")
	if err != nil {
		if logger.L != nil {
			logger.L.Error("Error querying table schema for 'funds'", "error", err)
		}
		return
	}
	defer rows.Close()

	columnExists := make(map[string]bool)
	for rows.Next() {
		var cid, pk int
		var name, dataType string
		var notnullVal int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &dataType, &notnullVal, &dfltValue, &pk); err != nil {
			if logger.L != nil {
				logger.L.Error("Error scanning column info for 'funds'", "error", err)
			}
			return
		}
		columnExists[name] = true
	}
	if err = rows.Err(); err != nil {
		if logger.L != nil {
			logger.L.Error("Error iterating over column info for 'funds'", "error", err)
		}
		return
	}

	if _, ok := columnExists["expense_ratio"]; !ok {
		if _, err := DB.Exec("ALTER TABLE funds ADD COLUMN expense_ratio REAL"); err != nil {
			logger.L.Error("Error adding 'expense_ratio' column to 'funds' table", "error", err)
		} else {
			logger.L.Info("Added 'expense_ratio' column to 'funds' table")
		}
	}
	if _, ok := columnExists["risk_level"]; !ok {
		if _, err := DB.Exec("ALTER TABLE funds ADD COLUMN risk_level TEXT NOT NULL DEFAULT 'Moderate'"); err != nil {
			logger.L.Error("Error adding 'risk_level' column to 'funds' table", "error", err)
		} else {
			logger.L.Info("Added 'risk_level' column to 'funds' table")
		}
	}
}
