package store

import (
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/solarninja/solarninja/data"

	// tell sql to use sqlite
	_ "modernc.org/sqlite"
)

const dbVersion = 1

// Meta holds store-level state
type Meta struct {
	ID      int
	Version int
	JWTKey  []byte
}

// DbSqlite represents a SQLite data store
type DbSqlite struct {
	db     *sql.DB
	dbFile string
	meta   Meta
}

// NewSqliteDb creates a new Sqlite data store
func NewSqliteDb(dbFile string) (*DbSqlite, error) {
	ret := &DbSqlite{dbFile: dbFile}

	db, err := sql.Open("sqlite", dbFile)
	if err != nil {
		return nil, err
	}

	ret.db = db

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS meta (id INT NOT NULL PRIMARY KEY,
				version INT,
				jwt_key BLOB)`)
	if err != nil {
		return nil, fmt.Errorf("Error creating meta table: %v", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS users (id TEXT NOT NULL PRIMARY KEY,
				first_name TEXT,
				last_name TEXT,
				email TEXT,
				pass TEXT)`)
	if err != nil {
		return nil, fmt.Errorf("Error creating users table: %v", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS sites (id TEXT NOT NULL PRIMARY KEY,
				description TEXT,
				lat REAL,
				lon REAL,
				altitude REAL,
				turbidity TEXT,
				created INT)`)
	if err != nil {
		return nil, fmt.Errorf("Error creating sites table: %v", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS estimates (id TEXT NOT NULL PRIMARY KEY,
				site_id TEXT,
				created INT,
				year INT,
				system TEXT,
				annual_kwh REAL,
				optimal_tilt INT,
				optimal_kwh REAL,
				monthly TEXT,
				financial TEXT,
				weather_source TEXT)`)
	if err != nil {
		return nil, fmt.Errorf("Error creating estimates table: %v", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS tariff (id INT NOT NULL PRIMARY KEY,
				data TEXT)`)
	if err != nil {
		return nil, fmt.Errorf("Error creating tariff table: %v", err)
	}

	metaRows, err := db.Query("SELECT * from meta")
	if err != nil {
		return nil, fmt.Errorf("Error quering meta: %v", err)
	}
	defer metaRows.Close()

	for metaRows.Next() {
		err = metaRows.Scan(&ret.meta.ID, &ret.meta.Version, &ret.meta.JWTKey)
		if err != nil {
			return nil, fmt.Errorf("Error scanning meta row: %v", err)
		}
	}

	if len(ret.meta.JWTKey) == 0 {
		err := ret.initMeta()
		if err != nil {
			return nil, fmt.Errorf("Error initializing store: %v", err)
		}
	}

	return ret, nil
}

func (sdb *DbSqlite) initMeta() error {
	log.Println("STORE: Initialize meta and admin user")

	sdb.meta.Version = dbVersion
	sdb.meta.JWTKey = make([]byte, 20)
	_, err := rand.Read(sdb.meta.JWTKey)
	if err != nil {
		return fmt.Errorf("Error generating JWT key: %v", err)
	}

	_, err = sdb.db.Exec("INSERT INTO meta(id, version, jwt_key) VALUES(?, ?, ?)",
		0, sdb.meta.Version, sdb.meta.JWTKey)
	if err != nil {
		return fmt.Errorf("Error writing meta: %v", err)
	}

	// create default admin user
	admin := data.User{
		ID:        uuid.New().String(),
		FirstName: "admin",
		LastName:  "user",
		Email:     "admin@admin.com",
		Pass:      "admin",
	}

	_, err = sdb.db.Exec(`INSERT INTO users(id, first_name, last_name, email, pass)
				VALUES(?, ?, ?, ?, ?)`,
		admin.ID, admin.FirstName, admin.LastName, admin.Email, admin.Pass)
	if err != nil {
		return fmt.Errorf("Error writing default user: %v", err)
	}

	return nil
}

// JWTKey returns the key used to sign auth tokens
func (sdb *DbSqlite) JWTKey() []byte {
	return sdb.meta.JWTKey
}

func (sdb *DbSqlite) siteSet(site data.Site) (data.Site, error) {
	if site.ID == "" {
		site.ID = uuid.New().String()
	}

	if site.Created.IsZero() {
		site.Created = time.Now().UTC()
	}

	turbidity, err := json.Marshal(site.TurbidityMonthly)
	if err != nil {
		return site, err
	}

	_, err = sdb.db.Exec(`INSERT INTO sites(id, description, lat, lon, altitude, turbidity, created)
			VALUES(?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
			description = excluded.description,
			lat = excluded.lat,
			lon = excluded.lon,
			altitude = excluded.altitude,
			turbidity = excluded.turbidity`,
		site.ID, site.Description, site.Lat, site.Lon, site.Altitude,
		string(turbidity), site.Created.Unix())

	if err != nil {
		return site, fmt.Errorf("Error writing site %v: %v", site.ID, err)
	}

	return site, nil
}

func (sdb *DbSqlite) scanSite(row interface{ Scan(...any) error }) (data.Site, error) {
	var site data.Site
	var turbidity string
	var created int64

	err := row.Scan(&site.ID, &site.Description, &site.Lat, &site.Lon,
		&site.Altitude, &turbidity, &created)
	if err != nil {
		return site, err
	}

	site.Created = time.Unix(created, 0).UTC()

	if turbidity != "" && turbidity != "null" {
		err = json.Unmarshal([]byte(turbidity), &site.TurbidityMonthly)
		if err != nil {
			return site, fmt.Errorf("Error parsing site turbidity: %v", err)
		}
	}

	return site, nil
}

func (sdb *DbSqlite) siteGet(id string) (data.Site, error) {
	row := sdb.db.QueryRow(`SELECT id, description, lat, lon, altitude, turbidity, created
			FROM sites WHERE id = ?`, id)

	site, err := sdb.scanSite(row)
	if err == sql.ErrNoRows {
		return site, data.ErrSiteNotFound
	}

	return site, err
}

func (sdb *DbSqlite) siteList() ([]data.Site, error) {
	rows, err := sdb.db.Query(`SELECT id, description, lat, lon, altitude, turbidity, created
			FROM sites ORDER BY created`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ret := []data.Site{}

	for rows.Next() {
		site, err := sdb.scanSite(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, site)
	}

	return ret, rows.Err()
}

func (sdb *DbSqlite) siteDelete(id string) error {
	res, err := sdb.db.Exec("DELETE FROM sites WHERE id = ?", id)
	if err != nil {
		return err
	}

	count, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if count == 0 {
		return data.ErrSiteNotFound
	}

	_, err = sdb.db.Exec("DELETE FROM estimates WHERE site_id = ?", id)
	return err
}

func (sdb *DbSqlite) estimateSave(est data.Estimate) error {
	system, err := json.Marshal(est.System)
	if err != nil {
		return err
	}

	monthly, err := json.Marshal(est.Monthly)
	if err != nil {
		return err
	}

	financial, err := json.Marshal(est.Financial)
	if err != nil {
		return err
	}

	_, err = sdb.db.Exec(`INSERT INTO estimates(id, site_id, created, year, system,
			annual_kwh, optimal_tilt, optimal_kwh, monthly, financial, weather_source)
			VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		est.ID, est.SiteID, est.Created.Unix(), est.Year, string(system),
		est.AnnualKWh, est.OptimalTilt, est.OptimalKWh, string(monthly),
		string(financial), est.WeatherSource)

	if err != nil {
		return fmt.Errorf("Error writing estimate %v: %v", est.ID, err)
	}

	return nil
}

func (sdb *DbSqlite) scanEstimate(row interface{ Scan(...any) error }) (data.Estimate, error) {
	var est data.Estimate
	var created int64
	var system, monthly, financial string

	err := row.Scan(&est.ID, &est.SiteID, &created, &est.Year, &system,
		&est.AnnualKWh, &est.OptimalTilt, &est.OptimalKWh, &monthly,
		&financial, &est.WeatherSource)
	if err != nil {
		return est, err
	}

	est.Created = time.Unix(created, 0).UTC()

	if err := json.Unmarshal([]byte(system), &est.System); err != nil {
		return est, fmt.Errorf("Error parsing estimate system: %v", err)
	}

	if err := json.Unmarshal([]byte(monthly), &est.Monthly); err != nil {
		return est, fmt.Errorf("Error parsing estimate monthly: %v", err)
	}

	if err := json.Unmarshal([]byte(financial), &est.Financial); err != nil {
		return est, fmt.Errorf("Error parsing estimate financial: %v", err)
	}

	return est, nil
}

const estimateCols = `id, site_id, created, year, system, annual_kwh,
			optimal_tilt, optimal_kwh, monthly, financial, weather_source`

func (sdb *DbSqlite) estimateGet(id string) (data.Estimate, error) {
	row := sdb.db.QueryRow(`SELECT `+estimateCols+` FROM estimates WHERE id = ?`, id)

	est, err := sdb.scanEstimate(row)
	if err == sql.ErrNoRows {
		return est, data.ErrEstimateNotFound
	}

	return est, err
}

func (sdb *DbSqlite) estimateList(siteID string) ([]data.Estimate, error) {
	var rows *sql.Rows
	var err error

	if siteID != "" {
		rows, err = sdb.db.Query(`SELECT `+estimateCols+
			` FROM estimates WHERE site_id = ? ORDER BY created`, siteID)
	} else {
		rows, err = sdb.db.Query(`SELECT ` + estimateCols +
			` FROM estimates ORDER BY created`)
	}

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ret := []data.Estimate{}

	for rows.Next() {
		est, err := sdb.scanEstimate(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, est)
	}

	return ret, rows.Err()
}

// userCheck returns the user for the given credentials, or nil if the
// credentials are not valid
func (sdb *DbSqlite) userCheck(email, password string) (*data.User, error) {
	var user data.User

	row := sdb.db.QueryRow(`SELECT id, first_name, last_name, email, pass
			FROM users WHERE email = ? AND pass = ?`, email, password)

	err := row.Scan(&user.ID, &user.FirstName, &user.LastName,
		&user.Email, &user.Pass)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (sdb *DbSqlite) tariffSet(tariff data.Tariff) error {
	b, err := json.Marshal(tariff)
	if err != nil {
		return err
	}

	_, err = sdb.db.Exec(`INSERT INTO tariff(id, data) VALUES(0, ?)
			ON CONFLICT(id) DO UPDATE SET data = excluded.data`,
		string(b))

	return err
}

// tariffGet returns the stored default tariff, or a default-populated
// tariff if none has been set
func (sdb *DbSqlite) tariffGet() (data.Tariff, error) {
	var tariff data.Tariff
	var b string

	row := sdb.db.QueryRow("SELECT data FROM tariff WHERE id = 0")
	err := row.Scan(&b)

	if err == sql.ErrNoRows {
		tariff.SetDefaults()
		return tariff, nil
	}

	if err != nil {
		return tariff, err
	}

	err = json.Unmarshal([]byte(b), &tariff)
	tariff.SetDefaults()
	return tariff, err
}

// verify does basic store sanity checks
func (sdb *DbSqlite) verify() error {
	var orphans int

	row := sdb.db.QueryRow(`SELECT COUNT(*) FROM estimates
			WHERE site_id NOT IN (SELECT id FROM sites)`)

	if err := row.Scan(&orphans); err != nil {
		return fmt.Errorf("Error checking estimates: %v", err)
	}

	if orphans > 0 {
		return fmt.Errorf("store has %v estimates with missing sites", orphans)
	}

	return nil
}

// reset permanently wipes all data in the store
func (sdb *DbSqlite) reset() error {
	for _, table := range []string{"meta", "users", "sites", "estimates", "tariff"} {
		_, err := sdb.db.Exec("DELETE FROM " + table)
		if err != nil {
			return fmt.Errorf("Error resetting %v: %v", table, err)
		}
	}

	return sdb.initMeta()
}

// Close the database
func (sdb *DbSqlite) Close() error {
	return sdb.db.Close()
}
