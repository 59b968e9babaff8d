package models

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestProductRequestDefaults(t *testing.T) {
	p := ProductRequest{Name: "AirPods Pro", Price: 350000, Category: "airpods"}.ToProduct()

	if p.Condition != ConditionNew {
		t.Fatalf("expected default condition %q, got %q", ConditionNew, p.Condition)
	}
	if p.Images == nil || p.Specs == nil {
		t.Fatal("images and specs must never be nil")
	}
}

func TestUpdateProductRequestOnlySetFields(t *testing.T) {
	price := 999.0
	featured := false
	images := []string{"a.jpg"}
	req := UpdateProductRequest{Price: &price, Featured: &featured, Images: &images}

	want := map[string]any{"price": 999.0, "featured": false, "images": ImageList{"a.jpg"}}
	if got := req.Updates(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Updates() = %#v, want %#v", got, want)
	}
	if len(UpdateProductRequest{}.Updates()) != 0 {
		t.Fatal("empty request should produce no updates")
	}
}

func TestImageListScan(t *testing.T) {
	var l ImageList
	if err := l.Scan([]byte(`["x.jpg","y.jpg"]`)); err != nil || len(l) != 2 {
		t.Fatalf("scan bytes: %v %v", l, err)
	}
	if err := l.Scan(`["z.jpg"]`); err != nil || l[0] != "z.jpg" {
		t.Fatalf("scan string: %v %v", l, err)
	}
	if err := l.Scan(nil); err != nil || l == nil || len(l) != 0 {
		t.Fatalf("scan nil: %v %v", l, err)
	}
	if err := l.Scan(42); err == nil {
		t.Fatal("expected error for unsupported type")
	}

	v, err := ImageList(nil).Value()
	if err != nil || string(v.([]byte)) != "[]" {
		t.Fatalf("nil value = %s, %v", v, err)
	}
}

func TestSnapshotJSON(t *testing.T) {
	snap := Snapshot{
		Data:      []Product{{ID: uuid.Must(uuid.NewV7()), Name: "iPhone 15", Images: ImageList{}}},
		FetchedAt: time.UnixMilli(1_710_000_000_123),
		Connected: true,
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatal(err)
	}
	var wire map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wire); err != nil {
		t.Fatal(err)
	}
	if string(wire["fetchedAt"]) != "1710000000123" {
		t.Fatalf("fetchedAt should be unix millis, got %s", wire["fetchedAt"])
	}

	var back Snapshot
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if !back.FetchedAt.Equal(snap.FetchedAt) || back.Data[0].ID != snap.Data[0].ID || !back.Connected {
		t.Fatalf("snapshot changed on the way through JSON: %+v", back)
	}

	empty, _ := json.Marshal(Snapshot{})
	if !json.Valid(empty) || string(empty) != `{"data":[],"fetchedAt":`+string(mustMillis(time.Time{}))+`,"connected":false}` {
		t.Fatalf("unexpected empty snapshot encoding %s", empty)
	}
}

func mustMillis(t time.Time) []byte {
	b, _ := json.Marshal(t.UnixMilli())
	return b
}

func TestNewProductSummary(t *testing.T) {
	p := Product{ID: uuid.New(), Name: "iPad", Stock: 0, Images: ImageList{"first.jpg", "second.jpg"}}
	s := NewProductSummary(p)
	if s.Image != "first.jpg" || s.InStock || s.ID != p.ID.String() {
		t.Fatalf("unexpected summary %+v", s)
	}
	s.Images[0] = "changed"
	if p.Images[0] != "first.jpg" {
		t.Fatal("summary shares the product's image slice")
	}
}

func TestNewPagination(t *testing.T) {
	if p := NewPagination(24, 0, 24, 30); !p.HasMore {
		t.Fatal("expected more pages")
	}
	if p := NewPagination(24, 24, 6, 30); p.HasMore {
		t.Fatal("expected last page")
	}
}
