package assetfs

import (
	"testing"

	"animation-poser/internal/asset"
	"animation-poser/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKnightStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(testutil.NewMemFS(t, testutil.KnightLibrary))
	require.NoError(t, err)
	return s
}

func TestResolveGroupLocation(t *testing.T) {
	s := newKnightStore(t)

	loc, ok := s.ResolveGroupLocation(testutil.IdleGroupID)
	require.True(t, ok)
	assert.Equal(t, asset.Location("Animations/Idles"), loc)

	_, ok = s.ResolveGroupLocation(testutil.MissingGroupID)
	assert.False(t, ok, "group folder does not exist")

	_, ok = s.ResolveGroupLocation("unknown")
	assert.False(t, ok)
}

func TestEnumerateIsRecursiveAndStable(t *testing.T) {
	s := newKnightStore(t)

	mats, err := s.EnumerateAssetsOfKind(asset.KindMaterial, "Knights")
	require.NoError(t, err)
	assert.Len(t, mats, 5, "subfolder materials are included")

	again, err := s.EnumerateAssetsOfKind(asset.KindMaterial, "Knights")
	require.NoError(t, err)
	assert.Equal(t, mats, again)

	prefabs, err := s.EnumerateAssetsOfKind(asset.KindPrefab, "Knights")
	require.NoError(t, err)
	var names []string
	for _, h := range prefabs {
		a, err := s.LoadAsset(h)
		require.NoError(t, err)
		names = append(names, a.AssetName())
	}
	assert.Equal(t, []string{"Chr_Attach_Sword_01", "Chr_Knight_01", "Chr_Knight_02", "Prop_Table_01"}, names)
}

func TestLoadPrefabResolvesMaterials(t *testing.T) {
	s := newKnightStore(t)
	prefabs, err := s.EnumerateAssetsOfKind(asset.KindPrefab, "Knights/Prefabs")
	require.NoError(t, err)

	var knight *asset.Prefab
	for _, h := range prefabs {
		a, err := s.LoadAsset(h)
		require.NoError(t, err)
		if a.AssetName() == "Chr_Knight_01" {
			knight = a.(*asset.Prefab)
		}
	}
	require.NotNil(t, knight)
	require.NotNil(t, knight.Rig)
	assert.True(t, knight.Rig.Humanoid)
	assert.Equal(t, "Head", knight.Rig.Head)

	renderers := knight.Renderers()
	require.Len(t, renderers, 2)
	body := renderers[0].Materials
	require.Len(t, body, 2)
	require.NotNil(t, body[0])
	assert.Equal(t, "Chr_Knight_01_A", body[0].Name)
	assert.Equal(t, asset.Location("Knights/Materials"), body[0].Folder())
	assert.Nil(t, body[1], "empty slot")

	helmet := renderers[1].Materials
	require.Len(t, helmet, 1)
	assert.Equal(t, "Default", helmet[0].Name)
	assert.Empty(t, helmet[0].Path, "built-in material has no backing file")
}

func TestLoadClip(t *testing.T) {
	s := newKnightStore(t)
	clips, err := s.EnumerateAssetsOfKind(asset.KindClip, "Animations/Idles")
	require.NoError(t, err)
	require.Len(t, clips, 2)

	a, err := s.LoadAsset(clips[0])
	require.NoError(t, err)
	clip := a.(*asset.Clip)
	assert.Equal(t, "A_Idle_01", clip.Name)
	assert.InDelta(t, 2.0, clip.Length, 1e-6)
	require.Len(t, clip.Root, 2)
	assert.InDelta(t, 3.0, clip.Root[1].Position.Z, 1e-6)
	require.Len(t, clip.Tracks, 1)
	assert.Equal(t, "Spine", clip.Tracks[0].Joint)
}

func TestLoadUnknownHandle(t *testing.T) {
	s := newKnightStore(t)
	_, err := s.LoadAsset(asset.Handle(12345))
	assert.ErrorIs(t, err, asset.ErrNotFound)
}

func TestMissingGroupsFile(t *testing.T) {
	s, err := New(testutil.NewMemFS(t, map[string]string{"a/x.clip.yaml": "name: x\n"}))
	require.NoError(t, err)
	_, ok := s.ResolveGroupLocation(testutil.IdleGroupID)
	assert.False(t, ok)
}
