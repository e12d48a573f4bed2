package sqldb

import (
	"fmt"
	"io/fs"
	"log"
	"path"
	"strings"
)

// RawStore holds raw SQL statements keyed by "<group>.<name>".
// It is filled once at startup and only read afterwards
type RawStore struct {
	dbType string
	stmts  map[string]string
}

func NewRawStore(dbType string) *RawStore {
	return &RawStore{dbType: dbType, stmts: make(map[string]string)}
}

func (s *RawStore) DBType() string {
	return s.dbType
}

func (s *RawStore) Set(key string, rawStmt string) {
	s.stmts[key] = rawStmt
}

func (s *RawStore) Get(key string) (string, bool) {
	stmt, exists := s.stmts[key]
	return stmt, exists
}

// MustGet panics on a missing key. Keys are compile-time constants of the caller
func (s *RawStore) MustGet(key string) string {
	stmt, exists := s.stmts[key]
	if !exists {
		panic(fmt.Errorf("raw sql stmt %q not loaded for %s", key, s.dbType))
	}
	return stmt
}

func (s *RawStore) GetAll() map[string]string {
	return s.stmts
}

type StoreGroupedStmtKey struct {
	Group    string
	StmtName string
}

func (k StoreGroupedStmtKey) String() string {
	return k.Group + "." + k.StmtName
}

// GroupFS is a statement group. FS must contain a `sql` dir
type GroupFS struct {
	Group string
	FS    fs.FS
}

// Load reads every group's `sql` dir.
// A file named after the store's dbType (e.g. `select_one.pgsql`) wins over
// the standard `select_one.sql` regardless of directory order
func (s *RawStore) Load(groups ...GroupFS) error {
	groupCnt := 0
	stmtCnt := 0
	for _, groupFS := range groups {
		files, err := fs.ReadDir(groupFS.FS, "sql")
		if err != nil {
			return fmt.Errorf("failed to read `sql` dir of group %q. %w", groupFS.Group, err)
		}
		dialect := map[string]bool{}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			filename := f.Name()
			ext := path.Ext(filename)
			name := strings.TrimSuffix(filename, ext)
			ext = strings.TrimPrefix(ext, ".")
			if ext != s.dbType && ext != "sql" {
				continue
			}
			data, err := fs.ReadFile(groupFS.FS, path.Join("sql", filename))
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", filename, err)
			}
			groupedStmtKey := StoreGroupedStmtKey{Group: groupFS.Group, StmtName: name}.String()
			rawStmt := strings.TrimSpace(string(data))

			switch ext {
			case s.dbType:
				// exact matching file extension -> use it as-is for dialects
				if _, exists := s.stmts[groupedStmtKey]; !exists {
					stmtCnt++
				}
				s.Set(groupedStmtKey, rawStmt)
				dialect[groupedStmtKey] = true
			case "sql":
				// Standard SQL with `@name` placeholders, bound by the backend
				if dialect[groupedStmtKey] {
					continue
				}
				if _, exists := s.stmts[groupedStmtKey]; !exists {
					stmtCnt++
				}
				s.Set(groupedStmtKey, rawStmt)
			}
		}
		groupCnt++
	}
	log.Printf("[INFO][%s] %d sql raw stmts loaded for %d groups", s.dbType, stmtCnt, groupCnt)
	return nil
}
