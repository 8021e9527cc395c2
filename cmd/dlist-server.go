package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Avik32223/dlinkedlist/internal/config"
	"github.com/Avik32223/dlinkedlist/internal/redis"
)

func main() {
	var (
		configPath string
		addr       string
		verbose    bool
	)
	flag.StringVar(&configPath, "config", "", "path to a YAML or JSON config file")
	flag.StringVar(&addr, "addr", "", "address to listen on. ex :6379")
	flag.BoolVar(&verbose, "v", false, "log failed commands")
	flag.Parse()

	log.SetPrefix("dlist: ")

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if addr != "" {
		cfg.Addr = addr
	}
	if verbose {
		cfg.Verbose = true
	}

	s, err := redis.NewServer(cfg)
	if err != nil {
		log.Fatal(err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		s.Stop()
	}()

	if err := s.Start(); err != nil {
		log.Fatal(err)
	}
}
