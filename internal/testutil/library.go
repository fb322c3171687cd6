// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"path"
	"testing"

	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"
)

// Group ids used by KnightLibrary.
const (
	IdleGroupID    = "anim-idles"
	EmoteGroupID   = "anim-emotes"
	KnightGroupID  = "art-knights"
	MissingGroupID = "art-missing"
)

// KnightLibrary is a small asset library: two animation groups, one character group with
// two placeable knights, an attachment, a prop, and a folder of knight material variants.
var KnightLibrary = map[string]string{
	"groups.yaml": `
- id: anim-idles
  path: Animations/Idles
- id: anim-emotes
  path: Animations/Emotes
- id: art-knights
  path: Knights
- id: art-missing
  path: Nowhere
`,
	"Animations/Idles/A_Idle_01.clip.yaml": `
name: A_Idle_01
length: 2
root:
  - {t: 0, pos: [0, 0, 0]}
  - {t: 2, pos: [0, 0, 3]}
tracks:
  - joint: Spine
    keys:
      - {t: 0, euler: [0, 0, 0]}
      - {t: 2, euler: [10, 0, 0]}
`,
	"Animations/Idles/A_Idle_Look_02.clip.yaml": `
name: A_Idle_Look_02
length: 1.5
`,
	"Animations/Emotes/A_EMOT_Wave.clip.yaml": `
name: A_EMOT_Wave
length: 3
`,
	"Knights/Prefabs/Chr_Knight_01.prefab.yaml": `
name: Chr_Knight_01
humanoid: true
head: Head
root:
  name: Chr_Knight_01
  children:
    - name: Root
      children:
        - name: Hips
          pos: [0, 1, 0]
          children:
            - name: Spine
              children:
                - name: Head
                  pos: [0, 0.6, 0]
    - name: Body
      materials: [Knights/Materials/Chr_Knight_01_A.mat.yaml, ""]
    - name: Helmet
      materials: ["builtin:Default"]
`,
	"Knights/Prefabs/Chr_Knight_02.prefab.yaml": `
name: Chr_Knight_02
rig: true
root:
  name: Chr_Knight_02
  children:
    - name: Bip_Pelvis
      children:
        - name: Bip_HeadBone
    - name: Body
      materials: [Knights/Materials/Chr_Knight_02_A.mat.yaml]
`,
	"Knights/Prefabs/Chr_Attach_Sword_01.prefab.yaml": `
name: Chr_Attach_Sword_01
root: {name: Chr_Attach_Sword_01}
`,
	"Knights/Prefabs/Prop_Table_01.prefab.yaml": `
name: Prop_Table_01
root: {name: Prop_Table_01}
`,
	"Knights/Materials/Chr_Knight_01_A.mat.yaml":     "name: Chr_Knight_01_A\n",
	"Knights/Materials/Chr_Knight_01_B.mat.yaml":     "name: Chr_Knight_01_B\n",
	"Knights/Materials/Chr_Knight_01_C.mat.yaml":     "name: Chr_Knight_01_C\n",
	"Knights/Materials/Chr_Knight_02_A.mat.yaml":     "name: Chr_Knight_02_A\n",
	"Knights/Materials/Alt/Chr_Knight_01_D.mat.yaml": "name: Chr_Knight_01_D\n",
}

// NewMemFS returns an in-memory file system holding files (path → contents).
func NewMemFS(t *testing.T, files map[string]string) hackpadfs.FS {
	t.Helper()

	fsys, err := mem.NewFS()
	if err != nil {
		t.Fatalf("failed to create mem fs: %v", err)
	}
	for p, content := range files {
		if dir := path.Dir(p); dir != "." {
			if err := hackpadfs.MkdirAll(fsys, dir, 0o755); err != nil {
				t.Fatalf("failed to create directory %s: %v", dir, err)
			}
		}
		if err := hackpadfs.WriteFullFile(fsys, p, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", p, err)
		}
	}
	return fsys
}
