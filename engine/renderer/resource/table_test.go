package resource

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-frame/common"
)

func TestWriteViewFaces(t *testing.T) {
	table := NewTable(800, 600, 2048, 512)

	tests := []struct {
		id   ID
		face int
		want error
	}{
		{EnvironmentCube, 0, nil},
		{EnvironmentCube, 5, nil},
		{EnvironmentCube, 6, ErrInvalidFace},
		{EnvironmentCube, -1, ErrInvalidFace},
		{ShadowMap, -1, nil},
		{ShadowMap, 2, ErrInvalidFace},
		{ID(42), -1, ErrUnknownResource},
	}
	for _, tt := range tests {
		v, err := table.WriteView(tt.id, tt.face)
		if !errors.Is(err, tt.want) {
			t.Errorf("WriteView(%v, %d) error = %v, want %v", tt.id, tt.face, err, tt.want)
			continue
		}
		if err == nil && (!v.Write || v.Face != tt.face || v.ID != tt.id) {
			t.Errorf("WriteView(%v, %d) = %+v", tt.id, tt.face, v)
		}
	}
}

func TestResizeHalvesAmbientMaps(t *testing.T) {
	table := NewTable(800, 600, 2048, 512)
	before, _ := table.ReadView(DepthBuffer)

	if err := table.Resize(1920, 1080); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	if got := table.Size(DepthBuffer); got != (common.Size{Width: 1920, Height: 1080}) {
		t.Errorf("DepthBuffer size = %v", got)
	}
	if got := table.Size(AmbientMap1); got != (common.Size{Width: 960, Height: 540}) {
		t.Errorf("AmbientMap1 size = %v", got)
	}
	if got := table.Size(ShadowMap); got != (common.Size{Width: 2048, Height: 2048}) {
		t.Errorf("ShadowMap resized to %v", got)
	}

	after, _ := table.ReadView(DepthBuffer)
	if before.Handle == after.Handle {
		t.Error("view handle unchanged across resize")
	}
	if err := table.Resize(0, 10); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Resize(0, 10) error = %v, want ErrInvalidSize", err)
	}
}

func TestUploadCopies(t *testing.T) {
	table := NewTable(4, 4, 4, 4)
	data := []byte{1, 2, 3}
	if err := table.Upload(RandomVectorMap, data); err != nil {
		t.Fatal(err)
	}
	data[0] = 9
	if got := table.Data(RandomVectorMap); got[0] != 1 || len(got) != 3 {
		t.Errorf("Data() = %v, want a copy of the upload", got)
	}
}

func TestRestState(t *testing.T) {
	tests := []struct {
		id   ID
		want State
	}{
		{BackBuffer, StatePresent},
		{ShadowMap, StateRead},
		{AmbientMap0, StateRead},
		{DepthBuffer, StateDepthWrite},
	}
	for _, tt := range tests {
		if got := RestState(tt.id); got != tt.want {
			t.Errorf("RestState(%v) = %v, want %v", tt.id, got, tt.want)
		}
	}
}
