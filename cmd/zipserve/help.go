package main

const (
	helpTextUse = "zipserve"

	helpTextShort = "index, split, and serve collections of ZIP archives"

	helpTextLong = `zipserve treats a directory of ZIP archives (optionally mixed with plain
files) as a single navigable filesystem. It indexes archive central
directories without fully extracting them, can split one archive into N
parallel sub-archives, and can serve a whole tree over HTTP.

Three subcommands are available:
- "bench" times indexing of a single archive or a directory of archives
- "split" divides one archive's entries across N output archives
- "serve" exposes a directory tree (files and archives) over HTTP`

	benchHelpTextUse = "bench (-f <file> | -d <dir>) [flags]"

	benchHelpTextShort = "time the indexing of an archive or a directory of archives"

	benchHelpTextLong = `bench indexes a single archive or every archive found under a directory and
reports how long it took, how many entries were found, and their total
uncompressed size.

Given -f/--file, both a single-thread and a parallel (-j workers) pass are
timed and reported. Given -d/--dir, only the parallel multi-archive pass
is timed.`

	splitHelpTextUse = "split -i <file> -o <dir> [flags]"

	splitHelpTextShort = "split one archive's entries across N output archives"

	splitHelpTextLong = `split reads an archive's central directory, orders its entries by the chosen
sort policy, and streams their contents to N worker goroutines, each
writing its own output archive under the destination directory. Entry
assignment to output archives is first-come-first-served, so output sizes
are driven by relative consumer speed rather than a fixed partition.`

	serveHelpTextUse = "serve [directory] [flags]"

	serveHelpTextShort = "serve a directory tree of files and archives over HTTP"

	serveHelpTextLong = `serve indexes a directory tree (both plain files and ZIP archives) into a
single virtual filesystem and exposes it over HTTP. Archive entries and
host files are resolved under one set of URLs; a directory with no
index.html gets a synthesized listing of its direct children.`
)
