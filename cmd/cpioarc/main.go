// Command cpioarc is a reference CLI over the cpiofs library: pack a directory
// tree into a newc archive, list one, or extract one back to disk. Grounded on
// the teacher's cmd/sqfs plain-flag dispatch shape.
package main

import (
	"fmt"
	"os"
)

const usage = `cpioarc - CPIO newc archive tool

Usage:
  cpioarc pack <dir> <archive.cpio>[.gz]      Pack a directory into a newc archive
  cpioarc ls <archive.cpio>[.gz] [<path>]     List entries (optionally under a path)
  cpioarc extract <archive.cpio>[.gz] <dir>   Extract an archive into a directory
  cpioarc info <archive.cpio>[.gz]            Summarize an archive's contents
  cpioarc help                                Show this help message

Archives whose name ends in ".gz" are transparently gzip-wrapped (via pgzip) on
both pack and read.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	var err error

	switch cmd {
	case "pack":
		if len(os.Args) < 4 {
			fmt.Println("Error: missing source directory or output archive path")
			fmt.Println(usage)
			os.Exit(1)
		}
		err = runPack(os.Args[2], os.Args[3])
	case "ls":
		if len(os.Args) < 3 {
			fmt.Println("Error: missing archive path")
			fmt.Println(usage)
			os.Exit(1)
		}
		path := "/"
		if len(os.Args) > 3 {
			path = os.Args[3]
		}
		err = runList(os.Args[2], path)
	case "extract":
		if len(os.Args) < 4 {
			fmt.Println("Error: missing archive path or destination directory")
			fmt.Println(usage)
			os.Exit(1)
		}
		err = runExtract(os.Args[2], os.Args[3])
	case "info":
		if len(os.Args) < 3 {
			fmt.Println("Error: missing archive path")
			fmt.Println(usage)
			os.Exit(1)
		}
		err = runInfo(os.Args[2])
	case "help":
		fmt.Println(usage)
	default:
		fmt.Printf("Error: unknown command %q\n", cmd)
		fmt.Println(usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
