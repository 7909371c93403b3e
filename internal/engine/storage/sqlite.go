package storage

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nbilal/homepin/internal/model"
)

// Store records submitted listings locally so the browse screen works
// without a round trip to the backend.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	if err := createSchema(db); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS listings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		server_id TEXT,
		title TEXT NOT NULL,
		price TEXT,
		city TEXT,
		type TEXT,
		description TEXT,
		zipcode TEXT,
		lat REAL,
		lng REAL,
		image_path TEXT,
		owner_id TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_listings_city ON listings(city);
	CREATE INDEX IF NOT EXISTS idx_listings_coords ON listings(lat, lng);
	`
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// InsertListing stores one submitted listing and returns its local id.
func (s *Store) InsertListing(l model.Listing) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		INSERT INTO listings
		(server_id, title, price, city, type, description, zipcode, lat, lng, image_path, owner_id, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		l.ServerID, l.Title, l.Price, l.City, l.Type, l.Description, l.Zipcode,
		l.Lat, l.Lng, l.ImagePath, l.OwnerID, time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting listing: %w", err)
	}
	return res.LastInsertId()
}

// ListListings returns all stored listings, newest first.
func (s *Store) ListListings() ([]model.Listing, error) {
	rows, err := s.db.Query(`
		SELECT id, COALESCE(server_id,''), title, COALESCE(price,''), COALESCE(city,''),
		       COALESCE(type,''), COALESCE(description,''), COALESCE(zipcode,''),
		       COALESCE(lat,0), COALESCE(lng,0), COALESCE(image_path,''), COALESCE(owner_id,''), created_at
		FROM listings ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying listings: %w", err)
	}
	defer rows.Close()

	var listings []model.Listing
	for rows.Next() {
		var l model.Listing
		if err := rows.Scan(
			&l.ID, &l.ServerID, &l.Title, &l.Price, &l.City, &l.Type,
			&l.Description, &l.Zipcode, &l.Lat, &l.Lng, &l.ImagePath, &l.OwnerID, &l.CreatedAt,
		); err != nil {
			continue
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (s *Store) Count() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM listings").Scan(&count)
	return count, err
}

func (s *Store) Close() error {
	return s.db.Close()
}
