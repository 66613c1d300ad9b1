package launcher

import (
	"net"
	"testing"
	"time"
)

func TestAddServerValidation(t *testing.T) {
	svc := newTestService(t, &fakeRegistry{})

	tests := []struct {
		name    string
		srvName string
		address string
		port    int
		wantErr bool
	}{
		{"valid", "Hypixel", "mc.hypixel.net", 25565, false},
		{"empty name", "", "mc.example.net", 25565, true},
		{"blank name", "   ", "mc.example.net", 25565, true},
		{"empty address", "NoAddr", "", 25565, true},
		{"port zero", "BadPort", "mc.example.net", 0, true},
		{"port too high", "BadPort2", "mc.example.net", 70000, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.AddServer(tt.srvName, tt.address, tt.port)
			if (err != nil) != tt.wantErr {
				t.Errorf("AddServer(%q) error = %v, wantErr %v", tt.srvName, err, tt.wantErr)
			}
		})
	}
}

func TestAddServerRejectsCaseInsensitiveDuplicate(t *testing.T) {
	svc := newTestService(t, &fakeRegistry{})

	if err := svc.AddServer("Hypixel", "mc.hypixel.net", 25565); err != nil {
		t.Fatal(err)
	}
	if err := svc.AddServer("hypixel", "other.example.net", 25565); err == nil {
		t.Error("expected a duplicate error for a name differing only in case")
	}
}

func TestDeleteServer(t *testing.T) {
	svc := newTestService(t, &fakeRegistry{})

	if err := svc.AddServer("Hypixel", "mc.hypixel.net", 25565); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteServer("Hypixel"); err != nil {
		t.Fatalf("DeleteServer failed: %v", err)
	}
	if err := svc.DeleteServer("Hypixel"); err == nil {
		t.Error("expected an error deleting a server twice")
	}

	servers, err := svc.Servers()
	if err != nil {
		t.Fatal(err)
	}
	if len(servers) != 0 {
		t.Errorf("servers remaining = %d, want 0", len(servers))
	}
}

func TestUpdateServerStatus(t *testing.T) {
	svc := newTestService(t, &fakeRegistry{})

	if err := svc.AddServer("Hypixel", "mc.hypixel.net", 25565); err != nil {
		t.Fatal(err)
	}
	status := ServerStatus{
		Status:        "online",
		PlayersOnline: 34000,
		PlayersMax:    100000,
		Version:       "1.20.4",
		MOTD:          "Welcome",
	}
	if err := svc.UpdateServerStatus("Hypixel", status); err != nil {
		t.Fatalf("UpdateServerStatus failed: %v", err)
	}

	servers, err := svc.Servers()
	if err != nil {
		t.Fatal(err)
	}
	if len(servers) != 1 {
		t.Fatalf("servers = %d, want 1", len(servers))
	}
	got := servers[0]
	if got.Status != "online" || got.PlayersOnline != 34000 || got.Version != "1.20.4" {
		t.Errorf("stored status = %+v", got)
	}
	if !got.LastChecked.Equal(svc.now()) {
		t.Errorf("LastChecked = %v, want the service clock %v", got.LastChecked, svc.now())
	}

	if err := svc.UpdateServerStatus("ghost", status); err == nil {
		t.Error("expected an error for an unknown server")
	}
}

func TestPingServer(t *testing.T) {
	svc := newTestService(t, &fakeRegistry{})

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer listener.Close()
	port := listener.Addr().(*net.TCPAddr).Port

	if err := svc.AddServer("Local", "127.0.0.1", port); err != nil {
		t.Fatal(err)
	}
	// Seed an earlier full snapshot; a reachability ping must not wipe it
	seed := ServerStatus{
		Status:        "online",
		PlayersOnline: 12,
		PlayersMax:    50,
		Version:       "1.20.4",
		MOTD:          "Welcome",
	}
	if err := svc.UpdateServerStatus("Local", seed); err != nil {
		t.Fatal(err)
	}

	status, err := svc.PingServer("Local", time.Second)
	if err != nil {
		t.Fatalf("PingServer failed: %v", err)
	}
	if status.Status != "online" {
		t.Errorf("status = %q, want online while the listener is up", status.Status)
	}
	if status.PlayersOnline != 12 || status.PlayersMax != 50 || status.MOTD != "Welcome" {
		t.Errorf("snapshot fields not preserved: %+v", status)
	}

	listener.Close()
	status, err = svc.PingServer("Local", 200*time.Millisecond)
	if err != nil {
		t.Fatalf("PingServer failed after close: %v", err)
	}
	if status.Status != "offline" {
		t.Errorf("status = %q, want offline after the listener closed", status.Status)
	}

	servers, err := svc.Servers()
	if err != nil {
		t.Fatal(err)
	}
	if len(servers) != 1 || servers[0].Status != "offline" {
		t.Errorf("stored status not refreshed: %+v", servers)
	}
	if !servers[0].LastChecked.Equal(svc.now()) {
		t.Errorf("LastChecked = %v, want the service clock %v", servers[0].LastChecked, svc.now())
	}

	if _, err := svc.PingServer("ghost", time.Second); err == nil {
		t.Error("expected an error for an unknown server")
	}
}
