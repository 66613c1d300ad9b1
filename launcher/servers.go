package launcher

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"modpack-launcher/db"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ServerStatus is a status snapshot reported by a server ping.
type ServerStatus struct {
	Status        string
	PlayersOnline int
	PlayersMax    int
	Version       string
	MOTD          string
	Favicon       string
}

// Servers lists saved servers in the order they were added.
func (s *Service) Servers() ([]db.ServerEntry, error) {
	var servers []db.ServerEntry
	if err := db.DB.Order("created_at ASC").Find(&servers).Error; err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", err)
	}
	return servers, nil
}

// AddServer saves a new server entry. Names are unique case-insensitively.
func (s *Service) AddServer(name, address string, port int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("server name cannot be empty")
	}
	if strings.TrimSpace(address) == "" {
		return fmt.Errorf("server address cannot be empty")
	}
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port %d", port)
	}

	var count int64
	db.DB.Model(&db.ServerEntry{}).Where("LOWER(name) = ?", strings.ToLower(name)).Count(&count)
	if count > 0 {
		return fmt.Errorf("server '%s' already exists", name)
	}

	entry := db.ServerEntry{
		Name:    name,
		Address: address,
		Port:    port,
		Status:  "unknown",
	}
	if err := db.DB.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to save server: %w", err)
	}
	s.log.Infow("Added server", zap.String("name", name), zap.String("address", address))
	return nil
}

// DeleteServer removes a server entry by name.
func (s *Service) DeleteServer(name string) error {
	result := db.DB.Where("name = ?", name).Delete(&db.ServerEntry{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete server: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("server '%s' not found", name)
	}
	return nil
}

// PingServer checks whether a saved server accepts TCP connections and stores
// the resulting status. This is a reachability check only; player counts and
// MOTD from the last full snapshot are kept as-is.
func (s *Service) PingServer(name string, timeout time.Duration) (ServerStatus, error) {
	var entry db.ServerEntry
	if err := db.DB.Where("name = ?", name).First(&entry).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ServerStatus{}, fmt.Errorf("server '%s' not found", name)
		}
		return ServerStatus{}, fmt.Errorf("failed to look up server: %w", err)
	}

	status := ServerStatus{
		Status:        "offline",
		PlayersOnline: entry.PlayersOnline,
		PlayersMax:    entry.PlayersMax,
		Version:       entry.Version,
		MOTD:          entry.MOTD,
		Favicon:       entry.Favicon,
	}
	addr := net.JoinHostPort(entry.Address, strconv.Itoa(entry.Port))
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err == nil {
		conn.Close()
		status.Status = "online"
	}

	if err := s.UpdateServerStatus(name, status); err != nil {
		return ServerStatus{}, err
	}
	return status, nil
}

// UpdateServerStatus stores a fresh status snapshot and stamps the check
// time.
func (s *Service) UpdateServerStatus(name string, status ServerStatus) error {
	var entry db.ServerEntry
	if err := db.DB.Where("name = ?", name).First(&entry).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("server '%s' not found", name)
		}
		return fmt.Errorf("failed to look up server: %w", err)
	}

	entry.Status = status.Status
	entry.PlayersOnline = status.PlayersOnline
	entry.PlayersMax = status.PlayersMax
	entry.Version = status.Version
	entry.MOTD = status.MOTD
	entry.Favicon = status.Favicon
	entry.LastChecked = s.now()

	if err := db.DB.Save(&entry).Error; err != nil {
		return fmt.Errorf("failed to update server: %w", err)
	}
	return nil
}
