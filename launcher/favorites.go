package launcher

import (
	"fmt"

	"modpack-launcher/db"
	"modpack-launcher/session"
)

// FavoritesStore persists favorites in the launcher database, implementing
// session.FavoritesRepo.
type FavoritesStore struct{}

// List returns favorites ordered by the position they were added in.
func (FavoritesStore) List() ([]session.Favorite, error) {
	var records []db.FavoriteMod
	if err := db.DB.Order("position ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	favorites := make([]session.Favorite, 0, len(records))
	for _, r := range records {
		favorites = append(favorites, session.Favorite{
			ProjectID: r.ProjectID,
			Title:     r.Title,
			IconURL:   r.IconURL,
		})
	}
	return favorites, nil
}

// Add appends a favorite; duplicates by project id are rejected by the
// unique index.
func (FavoritesStore) Add(fav session.Favorite) error {
	var maxPos int
	row := db.DB.Model(&db.FavoriteMod{}).Select("COALESCE(MAX(position), 0)").Row()
	if err := row.Scan(&maxPos); err != nil {
		maxPos = 0
	}
	record := db.FavoriteMod{
		ProjectID: fav.ProjectID,
		Title:     fav.Title,
		IconURL:   fav.IconURL,
		Position:  maxPos + 1,
	}
	if err := db.DB.Create(&record).Error; err != nil {
		return fmt.Errorf("failed to save favorite: %w", err)
	}
	return nil
}

// Remove deletes a favorite by project id.
func (FavoritesStore) Remove(projectID string) error {
	if err := db.DB.Where("project_id = ?", projectID).Delete(&db.FavoriteMod{}).Error; err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}
