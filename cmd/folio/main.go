package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	apiclient "github.com/Alexander2005-rgb/portfolio/pkg/api/client"
	"golang.org/x/term"
)

type cliConfig struct {
	APIBaseURL  string `json:"api_base_url"`
	AccessToken string `json:"access_token"`
}

const requestTimeout = 15 * time.Second

var buildVersion = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "register-owner":
		err = commandRegisterOwner(args)
	case "login":
		err = commandLogin(args)
	case "me":
		err = commandMe(args)
	case "users":
		err = commandUsers(args)
	case "create-user":
		err = commandCreateUser(args)
	case "delete-user":
		err = commandDeleteUser(args)
	case "projects":
		err = commandProjects(args)
	case "certificates":
		err = commandCertificates(args)
	case "skills":
		err = commandSkills(args)
	case "contact":
		err = commandContact(args)
	case "version", "--version", "-v":
		printVersion()
		return
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func commandRegisterOwner(args []string) error {
	fs := flag.NewFlagSet("register-owner", flag.ExitOnError)
	name := fs.String("name", "", "Display name")
	email := fs.String("email", "", "Email address")
	password := fs.String("password", "", "Password (supply to avoid prompt)")
	code := fs.String("code", "", "Owner registration code")
	apiBase := fs.String("api", "", "API base URL (default "+apiclient.DefaultBaseURL+")")
	fs.Parse(args)

	if strings.TrimSpace(*name) == "" || strings.TrimSpace(*email) == "" || strings.TrimSpace(*code) == "" {
		return errors.New("--name, --email and --code are required")
	}
	secret, err := readPassword(*password)
	if err != nil {
		return err
	}

	cfg, client, err := clientFor(*apiBase)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	session, err := client.RegisterOwner(ctx, *name, *email, secret, *code)
	if err != nil {
		return err
	}
	cfg.AccessToken = session.Token
	if err := saveConfig(cfg); err != nil {
		return err
	}
	fmt.Printf("owner %s registered\n", session.User.Email)
	return nil
}

func commandLogin(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "Email address")
	password := fs.String("password", "", "Password (supply to avoid prompt)")
	apiBase := fs.String("api", "", "API base URL (default "+apiclient.DefaultBaseURL+")")
	fs.Parse(args)

	if strings.TrimSpace(*email) == "" {
		return errors.New("--email is required")
	}
	secret, err := readPassword(*password)
	if err != nil {
		return err
	}

	cfg, client, err := clientFor(*apiBase)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	session, err := client.Login(ctx, *email, secret)
	if err != nil {
		return err
	}
	cfg.AccessToken = session.Token
	if err := saveConfig(cfg); err != nil {
		return err
	}
	fmt.Println("login successful")
	return nil
}

func commandMe(args []string) error {
	fs := flag.NewFlagSet("me", flag.ExitOnError)
	fs.Parse(args)

	client, token, err := authedClient()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	user, err := client.Me(ctx, token)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s> role=%s id=%s\n", user.Name, user.Email, user.Role, user.ID)
	return nil
}

func commandUsers(args []string) error {
	fs := flag.NewFlagSet("users", flag.ExitOnError)
	fs.Parse(args)

	client, token, err := authedClient()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	users, err := client.ListUsers(ctx, token)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role)
	}
	return w.Flush()
}

func commandCreateUser(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)
	name := fs.String("name", "", "Display name")
	email := fs.String("email", "", "Email address")
	password := fs.String("password", "", "Password (supply to avoid prompt)")
	fs.Parse(args)

	if strings.TrimSpace(*name) == "" || strings.TrimSpace(*email) == "" {
		return errors.New("--name and --email are required")
	}
	secret, err := readPassword(*password)
	if err != nil {
		return err
	}

	client, token, err := authedClient()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	user, err := client.CreateUser(ctx, token, *name, *email, secret)
	if err != nil {
		return err
	}
	fmt.Printf("user created: %s (%s)\n", user.Email, user.ID)
	return nil
}

func commandDeleteUser(args []string) error {
	fs := flag.NewFlagSet("delete-user", flag.ExitOnError)
	userID := fs.String("id", "", "User ID")
	fs.Parse(args)

	if strings.TrimSpace(*userID) == "" {
		return errors.New("--id is required")
	}

	client, token, err := authedClient()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	user, err := client.DeleteUser(ctx, token, *userID)
	if err != nil {
		return err
	}
	fmt.Printf("user deleted: %s\n", user.Email)
	return nil
}

func commandProjects(args []string) error {
	if err := expectList("projects", args); err != nil {
		return err
	}
	_, client, err := clientFor("")
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	projects, err := client.ListProjects(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tURL")
	for _, p := range projects {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Title, p.Category, p.ProjectURL)
	}
	return w.Flush()
}

func commandCertificates(args []string) error {
	if err := expectList("certificates", args); err != nil {
		return err
	}
	_, client, err := clientFor("")
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	certs, err := client.ListCertificates(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tISSUER\tISSUED\tCATEGORY")
	for _, c := range certs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.Title, c.Issuer, c.IssueDate.Format("2006-01-02"), c.Category)
	}
	return w.Flush()
}

func commandSkills(args []string) error {
	if err := expectList("skills", args); err != nil {
		return err
	}
	_, client, err := clientFor("")
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	skills, err := client.ListSkills(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tLEVEL")
	for _, s := range skills {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Category, s.Level)
	}
	return w.Flush()
}

func commandContact(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: folio contact <list|read>")
	}
	switch args[0] {
	case "list":
		return contactList(args[1:])
	case "read":
		return contactRead(args[1:])
	default:
		return fmt.Errorf("unknown contact subcommand: %s", args[0])
	}
}

func contactList(args []string) error {
	fs := flag.NewFlagSet("contact list", flag.ExitOnError)
	unread := fs.Bool("unread", false, "Only show unread messages")
	fs.Parse(args)

	cfg, client, err := clientFor("")
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	messages, err := client.ListContacts(ctx, cfg.AccessToken)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFROM\tSUBJECT\tREAD\tRECEIVED")
	for _, m := range messages {
		if *unread && m.Read {
			continue
		}
		fmt.Fprintf(w, "%s\t%s <%s>\t%s\t%t\t%s\n", m.ID, m.Name, m.Email, m.Subject, m.Read, m.CreatedAt.Local().Format(time.DateTime))
	}
	return w.Flush()
}

func contactRead(args []string) error {
	fs := flag.NewFlagSet("contact read", flag.ExitOnError)
	messageID := fs.String("id", "", "Message ID")
	fs.Parse(args)

	if strings.TrimSpace(*messageID) == "" {
		return errors.New("--id is required")
	}
	cfg, client, err := clientFor("")
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	msg, err := client.MarkContactRead(ctx, cfg.AccessToken, *messageID)
	if err != nil {
		return err
	}
	fmt.Printf("message %s marked read\n", msg.ID)
	return nil
}

func expectList(cmd string, args []string) error {
	if len(args) == 0 || args[0] != "list" {
		return fmt.Errorf("usage: folio %s list", cmd)
	}
	return nil
}

func readPassword(supplied string) (string, error) {
	if secret := strings.TrimSpace(supplied); secret != "" {
		return secret, nil
	}
	fmt.Print("Password: ")
	bytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Print("\n")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(bytes), nil
}

// clientFor loads the saved config, applying apiBase when set.
func clientFor(apiBase string) (cliConfig, *apiclient.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cliConfig{}, nil, err
	}
	if strings.TrimSpace(apiBase) != "" {
		cfg.APIBaseURL = apiBase
	}
	client, err := apiclient.New(cfg.APIBaseURL)
	if err != nil {
		return cliConfig{}, nil, err
	}
	return cfg, client, nil
}

func authedClient() (*apiclient.Client, string, error) {
	cfg, client, err := clientFor("")
	if err != nil {
		return nil, "", err
	}
	token := strings.TrimSpace(cfg.AccessToken)
	if token == "" {
		return nil, "", errors.New("please login first using 'folio login'")
	}
	return client, token, nil
}

func loadConfig() (cliConfig, error) {
	path, err := configPath()
	if err != nil {
		return cliConfig{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cliConfig{APIBaseURL: apiclient.DefaultBaseURL}, nil
		}
		return cliConfig{}, err
	}
	var cfg cliConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cliConfig{}, err
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = apiclient.DefaultBaseURL
	}
	return cfg, nil
}

func saveConfig(cfg cliConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func configPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "folio", "config.json"), nil
}

func printUsage() {
	fmt.Printf("folio CLI %s\n\n", buildVersion)
	fmt.Print(`Usage:
	folio register-owner --name <name> --email <email> --code <registration-code> [--password secret] [--api url]
	folio login --email <email> [--password secret] [--api url]
	folio me
	folio users
	folio create-user --name <name> --email <email> [--password secret]
	folio delete-user --id <user-id>
	folio projects list
	folio certificates list
	folio skills list
	folio contact list [--unread]
	folio contact read --id <message-id>
	folio version
`)
}

func printVersion() {
	fmt.Println(strings.TrimSpace(buildVersion))
}
