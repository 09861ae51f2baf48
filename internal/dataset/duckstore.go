package dataset

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/marcboeker/go-duckdb"
)

// DuckStore persists an imported dataset into a DuckDB file so large
// uploads are parsed once and reopened cheaply for later chart builds.
type DuckStore struct {
	db     *sql.DB
	dbPath string
}

// ColumnInfo describes one stored column.
type ColumnInfo struct {
	Position int        `json:"position"`
	Name     string     `json:"name"`
	Kind     ColumnKind `json:"kind"`
}

const ingestBatchSize = 50000

// DuckStorePath returns the store file path for an uploaded dataset.
func DuckStorePath(dir string, fileID string) string {
	return filepath.Join(dir, fmt.Sprintf("dataset_%s.duckdb", fileID))
}

// NewDuckStore creates a store file for one uploaded dataset.
func NewDuckStore(dir string, fileID string) (*DuckStore, error) {
	return newDuckStoreAtPath(DuckStorePath(dir, fileID), false)
}

// OpenDuckStoreReadOnly opens a previously ingested dataset store.
func OpenDuckStoreReadOnly(dbPath string) (*DuckStore, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("dataset store not found: %w", err)
	}
	return newDuckStoreAtPath(dbPath, true)
}

func newDuckStoreAtPath(dbPath string, readOnly bool) (*DuckStore, error) {
	connector, err := duckdb.NewConnector(dbPath, func(execer driver.ExecerContext) error {
		pragmas := []string{
			"PRAGMA memory_limit='512MB'",
			"PRAGMA threads=2",
			"PRAGMA enable_progress_bar=false",
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				fmt.Printf("[DuckStore] Pragma warning: %v\n", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)

	if !readOnly {
		_, err = db.Exec(`
			CREATE TABLE IF NOT EXISTS columns (
				position INTEGER PRIMARY KEY,
				name     VARCHAR NOT NULL,
				kind     TINYINT NOT NULL
			)
		`)
		if err == nil {
			_, err = db.Exec(`
				CREATE TABLE IF NOT EXISTS cells (
					row_idx INTEGER NOT NULL,
					col_pos INTEGER NOT NULL,
					num     DOUBLE,
					str     VARCHAR
				)
			`)
		}
		if err != nil {
			db.Close()
			os.Remove(dbPath)
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}
	}

	return &DuckStore{db: db, dbPath: dbPath}, nil
}

// Path returns the on-disk location of the store.
func (s *DuckStore) Path() string { return s.dbPath }

// Ingest writes the whole dataset into the store using the Appender API,
// batched the same way the row inserts are batched for log ingestion.
func (s *DuckStore) Ingest(ds *Dataset) error {
	names := ds.ColumnNames()
	for pos, name := range names {
		kind, err := ds.ColumnKindOf(name)
		if err != nil {
			return err
		}
		if _, err := s.db.Exec(
			"INSERT INTO columns (position, name, kind) VALUES (?, ?, ?)",
			pos, name, int8(kind)); err != nil {
			return fmt.Errorf("failed to register column %q: %w", name, err)
		}
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get connection: %w", err)
	}
	defer conn.Close()

	return conn.Raw(func(driverConn interface{}) error {
		dConn, ok := driverConn.(*duckdb.Conn)
		if !ok {
			return fmt.Errorf("failed to cast to duckdb.Conn")
		}
		appender, err := duckdb.NewAppenderFromConn(dConn, "", "cells")
		if err != nil {
			return fmt.Errorf("failed to create appender: %w", err)
		}
		defer appender.Close()

		pending := 0
		for pos, name := range names {
			kind, _ := ds.ColumnKindOf(name)
			switch kind {
			case ColumnContinuous:
				col, _ := ds.ContinuousColumn(name)
				for row, v := range col.Values {
					var num interface{}
					if !math.IsNaN(v) {
						num = v
					}
					if err := appender.AppendRow(int32(row), int32(pos), num, nil); err != nil {
						return fmt.Errorf("failed to append row %d: %w", row, err)
					}
					pending++
					if pending >= ingestBatchSize {
						if err := appender.Flush(); err != nil {
							return err
						}
						pending = 0
					}
				}
			case ColumnCategorical:
				col, _ := ds.CategoricalColumn(name)
				for row, label := range col.Labels {
					if err := appender.AppendRow(int32(row), int32(pos), nil, label); err != nil {
						return fmt.Errorf("failed to append row %d: %w", row, err)
					}
					pending++
					if pending >= ingestBatchSize {
						if err := appender.Flush(); err != nil {
							return err
						}
						pending = 0
					}
				}
			}
		}
		return appender.Flush()
	})
}

// Finalize creates the lookup index after ingestion.
// Indexing after all inserts is much faster than maintaining it during them.
func (s *DuckStore) Finalize() error {
	_, err := s.db.Exec("CREATE INDEX IF NOT EXISTS idx_cells ON cells(col_pos, row_idx)")
	if err != nil {
		return fmt.Errorf("idx_cells creation failed: %w", err)
	}
	return nil
}

// Columns lists stored column metadata in position order.
func (s *DuckStore) Columns() ([]ColumnInfo, error) {
	rows, err := s.db.Query("SELECT position, name, kind FROM columns ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	defer rows.Close()

	var infos []ColumnInfo
	for rows.Next() {
		var info ColumnInfo
		var kind int8
		if err := rows.Scan(&info.Position, &info.Name, &kind); err != nil {
			return nil, err
		}
		info.Kind = ColumnKind(kind)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// LoadDataset materializes the full dataset back into memory.
func (s *DuckStore) LoadDataset() (*Dataset, error) {
	infos, err := s.Columns()
	if err != nil {
		return nil, err
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Position < infos[j].Position })

	ds := New()
	intern := NewStringIntern()
	for _, info := range infos {
		rows, err := s.db.Query(
			"SELECT num, str FROM cells WHERE col_pos = ? ORDER BY row_idx", info.Position)
		if err != nil {
			return nil, fmt.Errorf("failed to read column %q: %w", info.Name, err)
		}

		var nums []float64
		var labels []string
		for rows.Next() {
			var num sql.NullFloat64
			var str sql.NullString
			if err := rows.Scan(&num, &str); err != nil {
				rows.Close()
				return nil, err
			}
			if info.Kind == ColumnContinuous {
				if num.Valid {
					nums = append(nums, num.Float64)
				} else {
					nums = append(nums, math.NaN())
				}
			} else {
				labels = append(labels, intern.Intern(str.String))
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}

		if info.Kind == ColumnContinuous {
			err = ds.AddContinuousColumn(info.Name, nums)
		} else {
			err = ds.AddCategoricalColumn(info.Name, labels)
		}
		if err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// Close closes the underlying database.
func (s *DuckStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Remove closes the store and deletes the file from disk.
func (s *DuckStore) Remove() error {
	if err := s.Close(); err != nil {
		fmt.Printf("[DuckStore] close error: %v\n", err)
	}
	return os.Remove(s.dbPath)
}
