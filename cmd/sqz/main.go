// Copyright 2024 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"cloudeng.io/cmdutil"
	"cloudeng.io/cmdutil/subcmd"
	"cloudeng.io/errors"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/cosnicolaou/sqz"
	"github.com/cosnicolaou/sqz/container"
	"github.com/cosnicolaou/sqz/stats"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
	"github.com/schollz/progressbar/v2"
	"golang.org/x/crypto/ssh/terminal"
)

type CommonFlags struct {
	Window  int    `subcmd:"window,32768,'sliding window size, a power of two in [1024,65536]'"`
	BackEnd string `subcmd:"backend,rangecoder,'entropy back end: rangecoder or huffman'"`
	Verbose bool   `subcmd:"verbose,false,verbose debug/trace information"`
}

type packFlags struct {
	CommonFlags
	ProgressBar bool   `subcmd:"progress,true,display a progress bar"`
	OutputFile  string `subcmd:"output,,'output file or s3 path, omit for stdout'"`
}

type unpackFlags struct {
	CommonFlags
	ProgressBar bool   `subcmd:"progress,true,display a progress bar"`
	OutputFile  string `subcmd:"output,,'output file or s3 path, omit for stdout'"`
}

type catFlags struct {
	CommonFlags
}

var cmdSet *subcmd.CommandSet

func init() {
	packCmd := subcmd.NewCommand("pack",
		subcmd.MustRegisterFlagStruct(&packFlags{}, nil, nil),
		pack, subcmd.ExactlyNumArguments(1))
	packCmd.Document(`compress a file into a sqz container. Files may be local, on S3 or a URL.`)

	unpackCmd := subcmd.NewCommand("unpack",
		subcmd.MustRegisterFlagStruct(&unpackFlags{}, nil, nil),
		unpack, subcmd.ExactlyNumArguments(1))
	unpackCmd.Document(`decompress a sqz container.`)

	catCmd := subcmd.NewCommand("cat",
		subcmd.MustRegisterFlagStruct(&catFlags{}, nil, nil),
		cat, subcmd.AtLeastNArguments(0))
	catCmd.Document(`decompress sqz containers or stdin to stdout.`)

	cmdSet = subcmd.NewCommandSet(packCmd, unpackCmd, catCmd)
	cmdSet.Document(`compress and decompress files using the sqz codec. Files may be local, on S3 or a URL.`)

	file.RegisterImplementation("s3", func() file.Implementation {
		return s3file.NewImplementation(
			s3file.NewDefaultProvider(session.Options{}), s3file.Options{})
	})
}

func main() {
	cmdSet.MustDispatch(context.Background())
}

func backEndFromFlag(name string) (sqz.BackEnd, error) {
	switch name {
	case "", "rangecoder":
		return sqz.RangeCoder, nil
	case "huffman":
		return sqz.AdaptiveHuffman, nil
	default:
		return 0, fmt.Errorf("unknown backend %q", name)
	}
}

func sqzOptsFromCommonFlags(cl *CommonFlags) ([]sqz.Option, error) {
	be, err := backEndFromFlag(cl.BackEnd)
	if err != nil {
		return nil, err
	}
	return []sqz.Option{
		sqz.Window(uint32(cl.Window)), //#nosec G115 -- flag range validated by sqz.Option.
		sqz.WithBackEnd(be),
	}, nil
}

func openFileOrURL(ctx context.Context, name string) (io.Reader, int64, func(context.Context) error, error) {
	if strings.HasPrefix(name, "http") {
		resp, err := http.Get(name) //#nosec G107 -- name is an explicit CLI argument.
		if err != nil {
			return nil, 0, nil, err
		}
		return resp.Body, resp.ContentLength,
			func(context.Context) error { return resp.Body.Close() }, nil
	}
	info, err := file.Stat(ctx, name)
	if err != nil {
		return nil, 0, nil, err
	}
	f, err := file.Open(ctx, name)
	if err != nil {
		return nil, 0, nil, err
	}
	return f.Reader(ctx), info.Size(), f.Close, nil
}

func createFile(ctx context.Context, name string) (io.Writer, func(context.Context) error, error) {
	if len(name) == 0 {
		return os.Stdout, func(context.Context) error { return nil }, nil
	}
	f, err := file.Create(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	return f.Writer(ctx), f.Close, nil
}

// progressWriter advances bar by every byte it forwards to w, so that
// reading an input file under it drives a byte-count progress bar the
// same way pbzip2's block-count channel drives its own.
type progressWriter struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.bar.Add(n)
	return n, err
}

func newProgressBar(enable bool, isTTY bool, size int64) (*progressbar.ProgressBar, io.Writer) {
	if !enable {
		return nil, nil
	}
	out := os.Stdout
	if isTTY {
		out = os.Stderr
	}
	bar := progressbar.NewOptions64(size,
		progressbar.OptionSetBytes64(size),
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetPredictTime(true))
	bar.RenderBlank()
	return bar, out
}

func pack(ctx context.Context, values interface{}, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cl := values.(*packFlags)
	cmdutil.HandleSignals(cancel, os.Interrupt)

	opts, err := sqzOptsFromCommonFlags(&cl.CommonFlags)
	if err != nil {
		return err
	}

	rd, size, readerCleanup, err := openFileOrURL(ctx, args[0])
	if err != nil {
		return err
	}
	defer readerCleanup(ctx) //nolint:errcheck

	isTTY := terminal.IsTerminal(int(os.Stdout.Fd()))
	bar, barWr := newProgressBar(cl.ProgressBar, isTTY, size)
	src := rd
	if bar != nil {
		src = io.TeeReader(rd, &progressWriter{w: io.Discard, bar: bar})
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return err
	}

	packed, err := container.Pack(data, container.SqzOptions(opts...))
	if err != nil {
		return err
	}

	if cl.Verbose {
		h := stats.Build(data)
		fmt.Fprintf(os.Stderr, "sqz: entropy %.3f bits/byte, theoretical minimum %.0f bytes, ratio %.1f%%\n",
			h.Entropy(), stats.MinBytes(data), stats.Ratio(len(data), len(packed)))
	}

	wr, writerCleanup, err := createFile(ctx, cl.OutputFile)
	if err != nil {
		return err
	}
	errs := &errors.M{}
	_, err = wr.Write(packed)
	errs.Append(err)
	errs.Append(writerCleanup(ctx))
	if bar != nil {
		fmt.Fprintln(barWr)
	}
	return errs.Err()
}

func unpack(ctx context.Context, values interface{}, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cl := values.(*unpackFlags)
	cmdutil.HandleSignals(cancel, os.Interrupt)

	opts, err := sqzOptsFromCommonFlags(&cl.CommonFlags)
	if err != nil {
		return err
	}

	rd, _, readerCleanup, err := openFileOrURL(ctx, args[0])
	if err != nil {
		return err
	}
	defer readerCleanup(ctx) //nolint:errcheck

	data, err := io.ReadAll(rd)
	if err != nil {
		return err
	}

	unpacked, err := container.Unpack(data, container.SqzOptions(opts...))
	if err != nil {
		return err
	}

	wr, writerCleanup, err := createFile(ctx, cl.OutputFile)
	if err != nil {
		return err
	}

	isTTY := terminal.IsTerminal(int(os.Stdout.Fd()))
	bar, barWr := newProgressBar(cl.ProgressBar, isTTY, int64(len(unpacked)))
	dst := wr
	if bar != nil {
		dst = &progressWriter{w: wr, bar: bar}
	}

	errs := &errors.M{}
	_, err = dst.Write(unpacked)
	errs.Append(err)
	errs.Append(writerCleanup(ctx))
	if bar != nil {
		fmt.Fprintln(barWr)
	}
	return errs.Err()
}

func cat(ctx context.Context, values interface{}, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cl := values.(*catFlags)
	cmdutil.HandleSignals(cancel, os.Interrupt)

	opts, err := sqzOptsFromCommonFlags(&cl.CommonFlags)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		out, err := container.Unpack(data, container.SqzOptions(opts...))
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	}

	for _, name := range args {
		rd, _, cleanup, err := openFileOrURL(ctx, name)
		if err != nil {
			return err
		}
		data, err := io.ReadAll(rd)
		cleanup(ctx) //nolint:errcheck
		if err != nil {
			return err
		}
		out, err := container.Unpack(data, container.SqzOptions(opts...))
		if err != nil {
			return err
		}
		if _, err := os.Stdout.Write(out); err != nil {
			return err
		}
	}
	return nil
}
