package backup

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitlit/internal/logger"
)

const (
	// DefaultKeep is how many snapshots survive pruning
	DefaultKeep = 14
	// DirName is created next to the database file
	DirName = "backups"

	stampLayout = "20060102T150405"
)

var namePattern = regexp.MustCompile(`^habitlit-(\d{8}T\d{6})(?:-(\d+))?\.db$`)

// Snapshot is one backup file on disk
type Snapshot struct {
	Path    string
	Name    string
	TakenAt time.Time
	Size    int64
	seq     int
}

// Manager takes, lists and restores SQLite snapshots of the habitlit database.
type Manager struct {
	dbPath string
	dir    string
	keep   int
	now    func() time.Time
}

func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath: dbPath,
		dir:    filepath.Join(filepath.Dir(dbPath), DirName),
		keep:   DefaultKeep,
		now:    time.Now,
	}
}

// WithClock replaces the clock used to name snapshots
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// WithKeep sets the retention count. Values below one disable pruning.
func (m *Manager) WithKeep(n int) *Manager {
	m.keep = n
	return m
}

func (m *Manager) Dir() string {
	return m.dir
}

// Create writes a new snapshot and prunes old ones.
func (m *Manager) Create() (Snapshot, error) {
	snap, err := m.create()
	if err != nil {
		return Snapshot{}, err
	}
	if err := m.prune(); err != nil {
		logger.Warn("failed to prune old backups", "dir", m.dir, "error", err)
	}
	return snap, nil
}

func (m *Manager) create() (Snapshot, error) {
	if _, err := os.Stat(m.dbPath); err != nil {
		return Snapshot{}, fmt.Errorf("database does not exist: %s", m.dbPath)
	}
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return Snapshot{}, fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, err := m.nextPath()
	if err != nil {
		return Snapshot{}, err
	}
	if err := vacuumInto(m.dbPath, path); err != nil {
		return Snapshot{}, fmt.Errorf("failed to back up database: %w", err)
	}

	logger.Info("backup created", "path", path)
	return m.describe(path)
}

// nextPath picks an unused file name for the current second
func (m *Manager) nextPath() (string, error) {
	stamp := m.now().UTC().Format(stampLayout)
	path := filepath.Join(m.dir, "habitlit-"+stamp+".db")
	for n := 1; ; n++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		if n > 99 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		path = filepath.Join(m.dir, fmt.Sprintf("habitlit-%s-%d.db", stamp, n))
	}
}

func vacuumInto(src, dst string) error {
	db, err := sql.Open("sqlite", src+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec("VACUUM INTO ?", dst); err != nil {
		return copyFile(src, dst)
	}
	return nil
}

func (m *Manager) describe(path string) (Snapshot, error) {
	name := filepath.Base(path)
	match := namePattern.FindStringSubmatch(name)
	if match == nil {
		return Snapshot{}, fmt.Errorf("not a habitlit backup: %s", name)
	}
	takenAt, err := time.Parse(stampLayout, match[1])
	if err != nil {
		return Snapshot{}, fmt.Errorf("bad timestamp in %s: %w", name, err)
	}
	seq := 0
	if match[2] != "" {
		seq, _ = strconv.Atoi(match[2])
	}
	info, err := os.Stat(path)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Path: path, Name: name, TakenAt: takenAt, Size: info.Size(), seq: seq}, nil
}

// List returns snapshots newest first
func (m *Manager) List() ([]Snapshot, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var out []Snapshot
	for _, e := range entries {
		if e.IsDir() || !namePattern.MatchString(e.Name()) {
			continue
		}
		snap, err := m.describe(filepath.Join(m.dir, e.Name()))
		if err != nil {
			continue
		}
		out = append(out, snap)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TakenAt.Equal(out[j].TakenAt) {
			return out[i].seq > out[j].seq
		}
		return out[i].TakenAt.After(out[j].TakenAt)
	})
	return out, nil
}

// Find resolves a snapshot by file name or path
func (m *Manager) Find(ref string) (Snapshot, error) {
	path := ref
	if filepath.Base(ref) == ref {
		path = filepath.Join(m.dir, ref)
	}
	if _, err := os.Stat(path); err != nil {
		return Snapshot{}, fmt.Errorf("backup not found: %s", ref)
	}
	return m.describe(path)
}

func (m *Manager) prune() error {
	if m.keep < 1 {
		return nil
	}
	snaps, err := m.List()
	if err != nil {
		return err
	}
	for i := m.keep; i < len(snaps); i++ {
		if err := os.Remove(snaps[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", snaps[i].Name, err)
		}
	}
	return nil
}

// Restore replaces the database with path. The current database is
// snapshotted first and that snapshot is returned. The caller must close
// any open connection before calling.
func (m *Manager) Restore(path string) (Snapshot, error) {
	if err := verify(path); err != nil {
		return Snapshot{}, fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var previous Snapshot
	if _, err := os.Stat(m.dbPath); err == nil {
		snap, err := m.create()
		if err != nil {
			return Snapshot{}, fmt.Errorf("failed to back up current database before restore: %w", err)
		}
		previous = snap
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(path, tmp); err != nil {
		return Snapshot{}, fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			logger.Warn("failed to remove temporary file", "path", tmp, "error", rmErr)
		}
		return Snapshot{}, fmt.Errorf("failed to restore database: %w", err)
	}

	logger.Info("database restored", "from", path)
	return previous, nil
}

// verify checks that path is a SQLite file holding a habitlit schema
func verify(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()

	var n int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('habits', 'schema_version')").Scan(&n)
	if err != nil {
		return err
	}
	if n != 2 {
		return fmt.Errorf("missing habitlit tables")
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
