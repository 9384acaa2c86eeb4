package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gookit/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/bgdev/bashview/fixture"
	"github.com/bgdev/bashview/snapshot"
)

var snapshotDir string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Store fixture images by content hash and render them later",
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save SCRIPT",
	Short: "Run a fixture script and store the image it builds",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		script := loadScript(args[0])
		h, err := snapshot.PutImage(openStore(), script.Image, script.Vars)
		if err != nil {
			log.Fatal().Err(err).Msg("Couldn't store snapshot")
		}
		fmt.Println(h)
	},
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show HASH [SYMBOL]",
	Short: "Render a stored snapshot's stack, or one of its values",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		h, err := snapshot.ParseHash(args[0])
		if err != nil {
			log.Fatal().Err(err).Msg("Bad snapshot hash")
		}
		img, roots, err := snapshot.RetrieveImage(snapshot.NewLRUCache(openStore(), 0), h)
		if err != nil {
			log.Fatal().Err(err).Msg("Couldn't load snapshot")
		}
		script := &fixture.Script{Image: img, Vars: roots}
		sess := openSession(script.Image)
		defer sess.Close()
		if len(args) == 1 {
			fmt.Println(color.Green.Sprint(script.Image.Label))
			sess.backtrace(os.Stdout, script.Image.Stack(), showLocals)
			return
		}
		renderScript(sess, script, args[1:])
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		store := openStore()
		hashes, err := store.List()
		if err != nil {
			log.Fatal().Err(err).Msg("Couldn't list snapshots")
		}
		for _, h := range hashes {
			// Object entries share the directory with the manifests.
			ref, err := snapshot.Retrieve[*snapshot.ImageRef](store, h)
			if err != nil || !ref.IsImage() {
				continue
			}
			fmt.Printf("%s %s\n", h, color.Green.Sprint(ref.Label))
		}
	},
}

func init() {
	snapshotCmd.PersistentFlags().StringVar(&snapshotDir, "dir", defaultSnapshotDir(), "Snapshot directory")
	snapshotShowCmd.Flags().BoolVar(&showLocals, "locals", false, "List each frame's variables")
	snapshotShowCmd.Flags().IntVar(&treeDepth, "depth", 3, "Levels of children to expand")
	snapshotCmd.AddCommand(snapshotSaveCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
}

func defaultSnapshotDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".bashview"
	}
	return filepath.Join(dir, "bashview")
}

func openStore() *snapshot.DirStore {
	s, err := snapshot.NewDirStore(snapshotDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", snapshotDir).Msg("Couldn't open snapshot directory")
	}
	return s
}
