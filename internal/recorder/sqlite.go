package recorder

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"TickerLens/internal/logger"
	"TickerLens/internal/model"
)

// SQLiteRecorder persists report history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *logger.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log *logger.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the API read history while the scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info("sqlite recorder opened", logger.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_reports (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			period         TEXT,
			profile        TEXT,
			recommendation TEXT,
			label          TEXT,
			score          INTEGER,
			risk_tier      TEXT,
			risk_points    INTEGER,
			price          REAL,
			rsi            REAL,
			ma7            REAL,
			ma20           REAL,
			ma50           REAL,
			macd           REAL,
			macd_signal    REAL,
			bb_upper       REAL,
			bb_lower       REAL,
			week_change    REAL,
			month_change   REAL,
			volume_ratio   REAL,
			volatility     REAL,
			high_52        REAL,
			low_52         REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_symbol_ts ON analysis_reports(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS analysis_findings (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			report_id   INTEGER NOT NULL REFERENCES analysis_reports(id),
			position    INTEGER NOT NULL,
			label       TEXT,
			explanation TEXT,
			weight      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_findings_report ON analysis_findings(report_id)`,

		`CREATE TABLE IF NOT EXISTS refresh_runs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			duration_ms INTEGER,
			source      TEXT,
			symbols     INTEGER,
			succeeded   INTEGER,
			failed      INTEGER,
			changed     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_ts ON refresh_runs(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", strings.TrimSpace(s)[:40], err)
		}
	}
	return nil
}

// nullable maps absent optional indicators to SQL NULL.
func nullable(present bool, v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: present}
}

func (r *SQLiteRecorder) RecordReport(report *model.AnalysisReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ind := report.Indicators
	sig := report.Signal
	m := ind.MACD
	b := ind.Bollinger

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO analysis_reports
		(timestamp, symbol, period, profile, recommendation, label, score,
		 risk_tier, risk_points, price, rsi, ma7, ma20, ma50,
		 macd, macd_signal, bb_upper, bb_lower,
		 week_change, month_change, volume_ratio, volatility, high_52, low_52)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		report.AsOf.Unix(), report.Symbol, string(report.Period), sig.Profile,
		sig.Recommendation.String(), sig.Label, sig.Score,
		string(report.Risk.Tier), report.Risk.Points,
		report.CurrentPrice, ind.RSI, ind.MA7, ind.MA20, ind.MA50,
		nullable(m != nil, macdOf(m).MACD), nullable(m != nil, macdOf(m).Signal),
		nullable(b != nil, bandsOf(b).Upper), nullable(b != nil, bandsOf(b).Lower),
		ind.WeekChange, ind.MonthChange, ind.VolumeRatio, ind.Volatility, ind.High52, ind.Low52,
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	reportID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for i, f := range sig.Findings {
		if _, err := tx.Exec(`INSERT INTO analysis_findings
			(report_id, position, label, explanation, weight) VALUES (?,?,?,?,?)`,
			reportID, i, f.Label, f.Explanation, f.Weight,
		); err != nil {
			return fmt.Errorf("insert finding: %w", err)
		}
	}
	return tx.Commit()
}

func macdOf(m *model.MACDValues) model.MACDValues {
	if m == nil {
		return model.MACDValues{}
	}
	return *m
}

func bandsOf(b *model.BollingerBands) model.BollingerBands {
	if b == nil {
		return model.BollingerBands{}
	}
	return *b
}

func (r *SQLiteRecorder) RecordRefresh(run *RefreshRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO refresh_runs
		(timestamp, duration_ms, source, symbols, succeeded, failed, changed)
		VALUES (?,?,?,?,?,?,?)`,
		run.StartedAt.Unix(), run.Duration.Milliseconds(), run.Trigger,
		run.Symbols, run.Succeeded, run.Failed, run.Changed,
	)
	return err
}

// RecentReports returns the newest reports for a symbol, newest first.
func (r *SQLiteRecorder) RecentReports(symbol string, limit int) ([]ReportRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`SELECT symbol, timestamp, period, profile, recommendation, label,
			score, risk_tier, price, rsi, volatility
		FROM analysis_reports WHERE symbol = ? ORDER BY timestamp DESC, id DESC LIMIT ?`,
		strings.ToUpper(symbol), limit)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var out []ReportRow
	for rows.Next() {
		var row ReportRow
		var ts int64
		if err := rows.Scan(&row.Symbol, &ts, &row.Period, &row.Profile, &row.Recommendation, &row.Label,
			&row.Score, &row.RiskTier, &row.Price, &row.RSI, &row.Volatility); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		row.AsOf = time.Unix(ts, 0).UTC()
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
