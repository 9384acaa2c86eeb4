package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/gookit/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/bgdev/bashview/host"
	"github.com/bgdev/bashview/procmem"
)

const maxPeekString = 4096

var (
	peekPid    int
	peekAddr   string
	peekLen    int
	peekString bool
)

var peekCmd = &cobra.Command{
	Use:   "peek",
	Short: "Read memory from a live process",
	Long: "Read bytes at an address in a running process, the same check the\n" +
		"pointer renderer makes before it dereferences. Needs ptrace access.",
	Args: cobra.NoArgs,
	Run:  peekCommand,
}

func init() {
	peekCmd.Flags().IntVar(&peekPid, "pid", 0, "Process to read")
	peekCmd.Flags().StringVar(&peekAddr, "addr", "", "Address, in hex or decimal")
	peekCmd.Flags().IntVar(&peekLen, "len", 16, "Bytes to read")
	peekCmd.Flags().BoolVar(&peekString, "string", false, "Read a NUL terminated string")
	_ = peekCmd.MarkFlagRequired("pid")
	_ = peekCmd.MarkFlagRequired("addr")
}

func peekCommand(cmd *cobra.Command, args []string) {
	n, err := strconv.ParseUint(peekAddr, 0, 64)
	if err != nil {
		log.Fatal().Err(err).Str("addr", peekAddr).Msg("Bad address")
	}
	addr := host.Addr(n)
	mem := procmem.New(peekPid)

	if peekString {
		s, err := readCString(mem, addr)
		if err != nil {
			fmt.Println(color.Red.Sprintf("%s <invalid mem loc>", addr))
			log.Debug().Err(err).Msg("read failed")
			return
		}
		fmt.Printf("%s '%s'\n", addr, s)
		return
	}

	data, err := mem.ReadMemory(addr, peekLen)
	if err != nil {
		fmt.Println(color.Red.Sprintf("%s <invalid address>", addr))
		log.Debug().Err(err).Msg("read failed")
		return
	}
	fmt.Print(hex.Dump(data))
}

// readCString reads a byte at a time so a string ending near the end of a
// mapping is not lost to a read that runs past it.
func readCString(mem host.Memory, addr host.Addr) (string, error) {
	var out []byte
	for len(out) < maxPeekString {
		chunk, err := mem.ReadMemory(addr+host.Addr(len(out)), 1)
		if err != nil {
			return "", err
		}
		if i := bytes.IndexByte(chunk, 0); i >= 0 {
			return string(append(out, chunk[:i]...)), nil
		}
		out = append(out, chunk...)
	}
	return string(out), nil
}
