// keeperctl is a small operator CLI for the PassKeeper server. It prompts
// for credentials and performs a login against the HTTP API, printing the
// issued token.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"
)

func main() {
	addr := flag.String("s", "http://localhost:8080", "server base URL")
	flag.Parse()

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Username: ")
	username, err := reader.ReadString('\n')
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading username: %v\n", err)
		os.Exit(1)
	}
	username = strings.TrimSpace(username)

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading password: %v\n", err)
		os.Exit(1)
	}

	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": string(password),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error encoding request: %v\n", err)
		os.Exit(1)
	}

	resp, err := http.Post(*addr+"/api/login", "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "request error: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	var result struct {
		Token   string `json:"token"`
		Message string `json:"message"`
		Reason  string `json:"reason"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&result); err != nil {
		fmt.Fprintf(os.Stderr, "error decoding response: %v\n", err)
		os.Exit(1)
	}

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "login rejected: %s\n", result.Message)
		os.Exit(1)
	}

	fmt.Println(result.Token)
}
