package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const usage = `Expected one of the subcommands:
  learn     train a Markov model from sequences of one class
  show      print trained models
  classify  classify sequences against trained models
  lpc       run linear prediction analysis on a stored window`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}
	_ = godotenv.Load()

	var err error
	switch os.Args[1] {
	case "learn":
		err = learnCmd(os.Args[2:])
	case "show":
		err = showCmd(os.Args[2:])
	case "classify":
		err = classifyCmd(os.Args[2:])
	case "lpc":
		err = lpcCmd(os.Args[2:])
	default:
		fmt.Println(usage)
		os.Exit(1)
	}

	if err != nil {
		os.Exit(1)
	}
}
