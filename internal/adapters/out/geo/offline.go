package geo

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"net/netip"
	"strings"

	"blogjobs/internal/core/domain/model/visitor"
	"blogjobs/internal/pkg/errs"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS ip_regions (
	start_ip INTEGER NOT NULL,
	end_ip   INTEGER NOT NULL,
	region   TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_ip_regions_start ON ip_regions (start_ip);
`

// OfflineResolver looks IPv4 addresses up in a local region table. Regions are
// pipe separated ("Country|Area|Province|City|ISP") with "0" for unknown parts.
type OfflineResolver struct {
	db *sql.DB
}

// OpenOfflineResolver opens (and if needed creates) the sqlite region database.
func OpenOfflineResolver(ctx context.Context, path string) (*OfflineResolver, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errs.NewValueIsRequiredError("ip region db path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &OfflineResolver{db: db}, nil
}

func (r *OfflineResolver) Name() string { return "offline" }

// AddRange inserts one region range; used to seed the table.
func (r *OfflineResolver) AddRange(ctx context.Context, start, end, region string) error {
	lo, err := ipv4ToUint(start)
	if err != nil {
		return err
	}
	hi, err := ipv4ToUint(end)
	if err != nil {
		return err
	}
	if hi < lo {
		return errs.NewValueIsOutOfRangeError("end ip", end, start, "255.255.255.255")
	}
	_, err = r.db.ExecContext(ctx, "INSERT INTO ip_regions (start_ip, end_ip, region) VALUES (?, ?, ?)", lo, hi, region)
	return err
}

func (r *OfflineResolver) Resolve(ctx context.Context, ip string) (visitor.Address, error) {
	n, err := ipv4ToUint(ip)
	if err != nil {
		return visitor.Address{}, err
	}

	var region string
	err = r.db.QueryRowContext(ctx, `
		SELECT region FROM ip_regions
		WHERE start_ip <= ? AND end_ip >= ?
		ORDER BY start_ip DESC
		LIMIT 1
	`, n, n).Scan(&region)
	if errors.Is(err, sql.ErrNoRows) {
		return visitor.Address{}, errs.NewObjectNotFoundError("region", ip)
	}
	if err != nil {
		return visitor.Address{}, err
	}

	addr := parseRegion(region)
	addr.Source = r.Name()
	if addr.IsZero() {
		return visitor.Address{}, errs.NewObjectNotFoundError("region", ip)
	}
	return addr, nil
}

func (r *OfflineResolver) Close() error {
	return r.db.Close()
}

func parseRegion(region string) visitor.Address {
	parts := strings.Split(region, "|")
	known := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" && p != "0" {
			known = append(known, p)
		}
	}
	addr := visitor.Address{Formatted: strings.Join(known, " ")}
	if len(parts) > 2 && parts[2] != "0" {
		addr.Province = strings.TrimSpace(parts[2])
	}
	return addr
}

func ipv4ToUint(ip string) (uint32, error) {
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause("ip", err)
	}
	addr = addr.Unmap()
	if !addr.Is4() {
		return 0, errs.NewValueIsInvalidError("ip " + ip + " is not IPv4")
	}
	b := addr.As4()
	return binary.BigEndian.Uint32(b[:]), nil
}
