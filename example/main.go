package main

import (
	"fmt"
	"os"

	"github.com/bakks/strict"
)

type CLI struct {
	Debug   bool `default:"false" help:"Debug mode."`
	Command Command
}

type Command struct {
	strict.OneOf
	Rm     *Rm     `help:"Remove files."`
	Ls     *Ls     `help:"List paths."`
	Remote *Remote `help:"Manage remotes."`
}

type Rm struct {
	User      string `default:"default" short:"u" help:"Run as user."`
	Force     bool   `default:"false" short:"f" help:"Force removal."`
	Recursive bool   `default:"false" short:"r" help:"Recursively remove files."`

	Paths []string `help:"Paths to remove." type:"path" name:"path"`
}

type Ls struct {
	Paths []string `optional:"" help:"Paths to list." type:"path" name:"path"`
}

type Remote struct {
	Command RemoteCommand
}

type RemoteCommand struct {
	strict.OneOf
	Add    *RemoteAdd    `name:"add" help:"Add a remote."`
	Remove *RemoteRemove `name:"remove" help:"Remove a remote."`
}

type RemoteAdd struct {
	Name string `help:"Remote name."`
	URL  string `help:"Remote URL."`
}

type RemoteRemove struct {
	Name string `help:"Remote name."`
}

func main() {
	cli, err := strict.Run[CLI](os.Args[1:],
		strict.WithName("shell"),
		strict.WithDescription("A shell-like example app."),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	switch cmd := strict.Selected(cli.Command).(type) {
	case *Rm:
		fmt.Println(cmd.Paths, cmd.Force, cmd.Recursive)
	case *Ls:
		fmt.Println(cmd.Paths)
	case *Remote:
		switch sub := strict.Selected(cmd.Command).(type) {
		case *RemoteAdd:
			fmt.Println("add", sub.Name, sub.URL)
		case *RemoteRemove:
			fmt.Println("remove", sub.Name)
		}
	}
}
