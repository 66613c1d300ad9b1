package launcher

import (
	"testing"

	"modpack-launcher/session"
)

func TestFavoritesStoreOrderAndRemove(t *testing.T) {
	newTestService(t, &fakeRegistry{}) // sets up the database

	store := FavoritesStore{}
	for _, fav := range []session.Favorite{
		{ProjectID: "proj-a", Title: "Alpha", IconURL: "https://cdn.example/a.png"},
		{ProjectID: "proj-b", Title: "Beta"},
		{ProjectID: "proj-c", Title: "Gamma"},
	} {
		if err := store.Add(fav); err != nil {
			t.Fatalf("Add(%s) failed: %v", fav.ProjectID, err)
		}
	}

	favorites, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"proj-a", "proj-b", "proj-c"}
	if len(favorites) != len(want) {
		t.Fatalf("favorites = %d, want %d", len(favorites), len(want))
	}
	for i, id := range want {
		if favorites[i].ProjectID != id {
			t.Errorf("favorites[%d] = %q, want %q (insertion order)", i, favorites[i].ProjectID, id)
		}
	}
	if favorites[0].IconURL != "https://cdn.example/a.png" {
		t.Errorf("icon url not persisted: %q", favorites[0].IconURL)
	}

	if err := store.Remove("proj-b"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	favorites, err = store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(favorites) != 2 || favorites[0].ProjectID != "proj-a" || favorites[1].ProjectID != "proj-c" {
		t.Errorf("favorites after remove = %+v", favorites)
	}
}

func TestFavoritesStoreRejectsDuplicate(t *testing.T) {
	newTestService(t, &fakeRegistry{})

	store := FavoritesStore{}
	fav := session.Favorite{ProjectID: "proj-a", Title: "Alpha"}
	if err := store.Add(fav); err != nil {
		t.Fatal(err)
	}
	if err := store.Add(fav); err == nil {
		t.Error("expected the unique index to reject a duplicate project id")
	}
}
