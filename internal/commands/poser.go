package commands

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"animation-poser/internal/filter"
	"animation-poser/internal/groups"
	"animation-poser/internal/mapgen"
	"animation-poser/internal/placement"
	"animation-poser/internal/scan"
	"animation-poser/internal/scene"
	"animation-poser/internal/session"
	"animation-poser/internal/settings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/spf13/cast"
)

// RegisterPoser adds the placement commands for s. Output goes to out.
func RegisterPoser(r *Registry, s *session.Session, out io.Writer) {
	r.Register("help", "list commands", func(fs *flag.FlagSet) func() error {
		return func() error {
			r.PrintHelp(out)
			return nil
		}
	})
	r.Register("status", "show scan and placement state", func(fs *flag.FlagSet) func() error {
		return func() error {
			st := s.Status()
			fmt.Fprintf(out, "%s\n", st.Text)
			fmt.Fprintf(out, "animations: %d, characters: %d, started: %t, scanning: %t (%.0f%%), rescan needed: %t\n",
				st.Animations, st.Characters, st.Started, st.Scanning, st.Fraction*100, st.RescanNeeded)
			return nil
		}
	})
	r.Register("start", "arm placement, scanning first when needed", func(fs *flag.FlagSet) func() error {
		return func() error { s.Start(); return nil }
	})
	r.Register("stop", "disarm placement", func(fs *flag.FlagSet) func() error {
		return func() error { s.Stop(); return nil }
	})
	r.Register("scan", "rescan the enabled groups", func(fs *flag.FlagSet) func() error {
		return func() error { s.Rescan(); return nil }
	})
	r.Register("cancel", "cancel a running scan", func(fs *flag.FlagSet) func() error {
		return func() error { s.CancelScan(); return nil }
	})
	r.Register("save", "persist settings", func(fs *flag.FlagSet) func() error {
		return s.Save
	})

	r.Register("groups", "list source groups", func(fs *flag.FlagSet) func() error {
		return func() error {
			set := s.Settings().Groups
			for _, f := range []groups.Family{groups.Animation, groups.Character} {
				for i, g := range set.Family(f) {
					mark := " "
					if g.Enabled {
						mark = "x"
					}
					strict := ""
					if g.StrictMaterialMatching {
						strict = " strict"
					}
					fmt.Fprintf(out, "[%s] %s %d %s (%s)%s\n", mark, f, i, g.Name, g.ID, strict)
				}
			}
			return nil
		}
	})
	r.Register("group", "enable or disable groups: group -family art [-all] [index] on|off", func(fs *flag.FlagSet) func() error {
		family := fs.String("family", "anim", "anim or art")
		all := fs.Bool("all", false, "apply to every group of the family")
		return func() error {
			f, err := groups.ParseFamily(*family)
			if err != nil {
				return err
			}
			args := fs.Args()
			if *all {
				if len(args) != 1 {
					return fmt.Errorf("commands: group -all takes on or off")
				}
				on, err := parseSwitch(args[0])
				if err != nil {
					return err
				}
				s.SetAllGroupsEnabled(f, on)
				return nil
			}
			if len(args) != 2 {
				return fmt.Errorf("commands: group takes an index and on or off")
			}
			i, err := cast.ToIntE(args[0])
			if err != nil {
				return fmt.Errorf("commands: group index: %w", err)
			}
			on, err := parseSwitch(args[1])
			if err != nil {
				return err
			}
			return s.SetGroupEnabled(f, i, on)
		}
	})

	r.Register("filter", "show or set a name filter: filter -family anim [-add token | -clear | tokens...]", func(fs *flag.FlagSet) func() error {
		family := fs.String("family", "anim", "anim or char")
		add := fs.String("add", "", "token to append")
		empty := fs.Bool("clear", false, "empty the filter")
		return func() error {
			f, err := groups.ParseFamily(*family)
			if err != nil {
				return err
			}
			switch {
			case *empty:
				s.ClearFilter(f)
			case *add != "":
				s.AddFilterToken(f, *add)
			case fs.NArg() > 0:
				s.SetFilter(f, strings.Join(fs.Args(), " "))
			}
			fmt.Fprintf(out, "%s filter: %q\n", f, s.Filter(f))
			return nil
		}
	})
	r.Register("preset", "add a quick filter preset: preset -family anim idle", func(fs *flag.FlagSet) func() error {
		family := fs.String("family", "anim", "anim or char")
		return func() error {
			f, err := groups.ParseFamily(*family)
			if err != nil {
				return err
			}
			if fs.NArg() == 0 {
				fmt.Fprintf(out, "%s presets: %s\n", f, strings.Join(session.PresetNames(f), ", "))
				return nil
			}
			for _, name := range fs.Args() {
				if err := s.ApplyPreset(f, name); err != nil {
					return err
				}
			}
			fmt.Fprintf(out, "%s filter: %q\n", f, s.Filter(f))
			return nil
		}
	})
	r.Register("list", "list scanned assets passing the filter: list -family char", func(fs *flag.FlagSet) func() error {
		family := fs.String("family", "anim", "anim or char")
		return func() error {
			f, err := groups.ParseFamily(*family)
			if err != nil {
				return err
			}
			entries := s.Result().Clips()
			if f == groups.Character {
				entries = s.Result().Prefabs()
			}
			for _, e := range filter.Apply(entries, entryName, filter.Parse(s.Filter(f))) {
				fmt.Fprintln(out, e.Name)
			}
			return nil
		}
	})

	r.Register("option", "show or change placement options", func(fs *flag.FlagSet) func() error {
		normal := fs.Bool("normal", false, "align to the surface normal")
		axis := fs.String("axis", "", "alignment axis x,y,z when not using the normal")
		spin := fs.Bool("spin", true, "random rotation about up")
		material := fs.Bool("material", false, "randomize material variants")
		head := fs.Bool("head", false, "randomly turn the head")
		yaw := fs.Float64("yaw", 0, "head yaw range in degrees")
		pitch := fs.Float64("pitch", 0, "head pitch range in degrees")
		return func() error {
			var axisVec rl.Vector3
			if *axis != "" {
				v, err := parseVec(*axis)
				if err != nil {
					return err
				}
				axisVec = v
			}
			s.UpdateSettings(func(st *settings.Settings) {
				fs.Visit(func(fl *flag.Flag) {
					switch fl.Name {
					case "normal":
						st.UseCollisionNormal = *normal
					case "axis":
						if *axis != "" {
							st.AlignmentAxis = axisVec
						}
					case "spin":
						st.RandomYRotation = *spin
					case "material":
						st.RandomMaterial = *material
					case "head":
						st.RotateHead = *head
					case "yaw":
						st.HeadYawRange = float32(*yaw)
					case "pitch":
						st.HeadPitchRange = float32(*pitch)
					}
				})
			})
			st := s.Settings()
			fmt.Fprintf(out, "normal=%t axis=%s spin=%t material=%t head=%t yaw=%g pitch=%g\n",
				st.UseCollisionNormal, formatVec(st.AlignmentAxis), st.RandomYRotation, st.RandomMaterial,
				st.RotateHead, st.HeadYawRange, st.HeadPitchRange)
			return nil
		}
	})

	r.Register("place", "place a character at a point: place -at x,y,z [-normal x,y,z]", func(fs *flag.FlagSet) func() error {
		at := fs.String("at", "0,0,0", "surface point")
		normal := fs.String("normal", "", "surface normal; set when the point is on a collider")
		return func() error {
			p, err := parseVec(*at)
			if err != nil {
				return err
			}
			req := placement.Request{Point: p, Normal: rl.NewVector3(0, 1, 0)}
			if *normal != "" {
				if req.Normal, err = parseVec(*normal); err != nil {
					return err
				}
				req.HasSurfaceHit = true
			}
			obj, err := s.PlaceAt(req)
			if err != nil {
				return err
			}
			printPlaced(out, obj)
			return nil
		}
	})
	r.Register("ray", "place where a ray hits: ray -from x,y,z -dir x,y,z", func(fs *flag.FlagSet) func() error {
		from := fs.String("from", "0,10,0", "ray origin")
		dir := fs.String("dir", "0,-1,0", "ray direction")
		return func() error {
			o, err := parseVec(*from)
			if err != nil {
				return err
			}
			d, err := parseVec(*dir)
			if err != nil {
				return err
			}
			obj, err := s.Click(rl.Ray{Position: o, Direction: rl.Vector3Normalize(d)})
			if err != nil {
				return err
			}
			printPlaced(out, obj)
			return nil
		}
	})
	r.Register("parent", "place under a named object: parent [-clear] name", func(fs *flag.FlagSet) func() error {
		root := fs.Bool("clear", false, "place at the scene root")
		return func() error {
			if *root {
				s.SetParent(nil)
				return nil
			}
			if fs.NArg() != 1 {
				return fmt.Errorf("commands: parent takes one object name")
			}
			for _, top := range s.Scene().Roots() {
				if o := top.FindNamed(fs.Arg(0)); o != nil {
					s.SetParent(o)
					fmt.Fprintf(out, "parent: %s\n", o.Name)
					return nil
				}
			}
			return fmt.Errorf("commands: no object named %q", fs.Arg(0))
		}
	})
	r.Register("terrain", "generate step terrain to place on: terrain [-size n] [-height h] [-seed s] [-clear]", func(fs *flag.FlagSet) func() error {
		d := mapgen.DefaultHeightMapOptions()
		size := fs.Int("size", d.Width, "tiles per side")
		height := fs.Float64("height", float64(d.HeightScale), "maximum tile height")
		seed := fs.Int64("seed", d.Seed, "noise seed")
		remove := fs.Bool("clear", false, "remove generated terrain")
		return func() error {
			colliders := s.Scene().Colliders
			if *remove {
				mapgen.Clear(colliders)
				fmt.Fprintln(out, "terrain cleared")
				return nil
			}
			opts := d
			opts.Width, opts.Depth = *size, *size
			opts.HeightScale = float32(*height)
			opts.Seed = *seed
			fmt.Fprintf(out, "terrain: %d tiles\n", mapgen.Apply(colliders, opts))
			return nil
		}
	})
	r.Register("undo", "remove the last placed character", func(fs *flag.FlagSet) func() error {
		return func() error {
			e, ok := s.Scene().Undo()
			if !ok {
				return fmt.Errorf("commands: nothing to undo")
			}
			fmt.Fprintf(out, "undo %s: %s\n", e.Label, e.Object.Name)
			return nil
		}
	})
}

func entryName(e scan.Entry) string { return e.Name }

func printPlaced(out io.Writer, o *scene.Object) {
	fmt.Fprintf(out, "placed %s at %s\n", o.Name, formatVec(o.WorldPosition()))
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("commands: want on or off, got %q", s)
	}
	return b, nil
}

func parseVec(s string) (rl.Vector3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return rl.Vector3{}, fmt.Errorf("commands: want x,y,z, got %q", s)
	}
	var v [3]float32
	for i, p := range parts {
		f, err := cast.ToFloat32E(strings.TrimSpace(p))
		if err != nil {
			return rl.Vector3{}, fmt.Errorf("commands: vector %q: %w", s, err)
		}
		v[i] = f
	}
	return rl.NewVector3(v[0], v[1], v[2]), nil
}

func formatVec(v rl.Vector3) string {
	return fmt.Sprintf("%.2f,%.2f,%.2f", v.X, v.Y, v.Z)
}
