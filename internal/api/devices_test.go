package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hearthd/hearth-core/internal/capability"
	"github.com/hearthd/hearth-core/internal/device"
)

func TestListDevices(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	req := authReq(t, httptest.NewRequest(http.MethodGet, "/api/v1/devices", nil))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		Devices []device.Device `json:"devices"`
		Count   int             `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if resp.Count != 3 {
		t.Errorf("count = %d, want 3", resp.Count)
	}
	// Insertion order is stable.
	if resp.Devices[0].ID != "light-living" {
		t.Errorf("first device = %q, want light-living", resp.Devices[0].ID)
	}
}

func TestListDevices_FilterByRoom(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	req := authReq(t, httptest.NewRequest(http.MethodGet, "/api/v1/devices?room=hallway", nil))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		Devices []device.Device `json:"devices"`
		Count   int             `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if resp.Count != 1 {
		t.Fatalf("count = %d, want 1", resp.Count)
	}
	if resp.Devices[0].ID != "lock-front" {
		t.Errorf("device = %q, want lock-front", resp.Devices[0].ID)
	}
}

func TestListDevices_UnknownRoom(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	req := authReq(t, httptest.NewRequest(http.MethodGet, "/api/v1/devices?room=attic", nil))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if int(resp["count"].(float64)) != 0 {
		t.Errorf("count = %v, want 0", resp["count"])
	}
}

func TestGetDevice(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	req := authReq(t, httptest.NewRequest(http.MethodGet, "/api/v1/devices/sensor-living", nil))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var dev device.Device
	if err := json.Unmarshal(w.Body.Bytes(), &dev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if dev.Label != "Living Room Sensor" {
		t.Errorf("label = %q, want Living Room Sensor", dev.Label)
	}
	if dev.Room != "living_room" {
		t.Errorf("room = %q, want living_room", dev.Room)
	}
	if dev.Attributes["temperature"] != 21.5 {
		t.Errorf("temperature = %v, want 21.5", dev.Attributes["temperature"])
	}
}

func TestGetDevice_NotFound(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	req := authReq(t, httptest.NewRequest(http.MethodGet, "/api/v1/devices/nonexistent", nil))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestGetDeviceAttribute(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	req := authReq(t, httptest.NewRequest(http.MethodGet, "/api/v1/devices/lock-front/attributes/lock", nil))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if resp["value"] != "locked" {
		t.Errorf("value = %v, want locked", resp["value"])
	}
	if resp["observed"] != true {
		t.Errorf("observed = %v, want true", resp["observed"])
	}
}

func TestGetDeviceAttribute_NeverObserved(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	req := authReq(t, httptest.NewRequest(http.MethodGet, "/api/v1/devices/light-living/attributes/unreported", nil))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["observed"] != false {
		t.Errorf("observed = %v, want false", resp["observed"])
	}
}

func TestGetDeviceAttribute_DeviceNotFound(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	req := authReq(t, httptest.NewRequest(http.MethodGet, "/api/v1/devices/nonexistent/attributes/switch", nil))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// ─── Capability Catalog Tests ──────────────────────────────────────

func TestListCapabilities(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	req := authReq(t, httptest.NewRequest(http.MethodGet, "/api/v1/capabilities", nil))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		Capabilities []string `json:"capabilities"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	found := false
	for _, name := range resp.Capabilities {
		if name == "switch" {
			found = true
		}
	}
	if !found {
		t.Errorf("capabilities %v missing switch", resp.Capabilities)
	}
}

func TestGetCapability(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	req := authReq(t, httptest.NewRequest(http.MethodGet, "/api/v1/capabilities/switch_level", nil))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var spec capability.Capability
	if err := json.Unmarshal(w.Body.Bytes(), &spec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if spec.Name != "switch_level" {
		t.Errorf("name = %q, want switch_level", spec.Name)
	}
	if _, ok := spec.Attributes["level"]; !ok {
		t.Error("expected level attribute in switch_level capability")
	}
	if _, ok := spec.Commands["set_level"]; !ok {
		t.Error("expected set_level command in switch_level capability")
	}
}

func TestGetCapability_Unknown(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	req := authReq(t, httptest.NewRequest(http.MethodGet, "/api/v1/capabilities/teleporter", nil))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
