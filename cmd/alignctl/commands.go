package main

import (
	"align/auth"
	"align/domain"
	"align/errors"
	"align/repositories"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

// console carries the collaborators shared by every subcommand.
type console struct {
	out      io.Writer
	subjects repositories.ISubjectRepository
	sessions repositories.ISessionRepository
	tokens   *auth.TokenIssuer
	colours  bool
}

func (c *console) success(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if c.colours {
		msg = color.New(color.FgGreen).Render(msg)
	}
	fmt.Fprintln(c.out, msg)
}

func (c *console) createUser(ctx context.Context, req auth.CreateSubjectRequest) (domain.Subject, error) {
	if err := auth.ValidateCreateSubject(req); err != nil {
		return domain.Subject{}, err
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return domain.Subject{}, fmt.Errorf("hash password: %w", err)
	}
	subject, err := c.subjects.CreateSubject(ctx, domain.Subject{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Role:         domain.ParseSubjectRole(req.Role),
	})
	if err != nil {
		return domain.Subject{}, err
	}
	c.success("Created subject %d <%s> as %s", subject.ID, subject.Email, subject.Role)
	return subject, nil
}

func (c *console) deleteUser(ctx context.Context, email string) error {
	if err := c.subjects.SoftDeleteSubject(ctx, email); err != nil {
		return err
	}
	c.success("Deleted subject <%s>, its tokens are no longer accepted", domain.NormalizeEmail(email))
	return nil
}

// token mints a bearer token for a live subject without checking its password.
func (c *console) token(ctx context.Context, email string) (string, error) {
	if c.tokens == nil {
		return "", fmt.Errorf("AUTH_SECRET is required to sign tokens")
	}
	subject, err := c.subjects.GetSubjectByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	token, err := c.tokens.Generate(subject)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrTokenGeneration, err)
	}
	fmt.Fprintln(c.out, token)
	return token, nil
}

// login checks the password before minting the token.
func (c *console) login(ctx context.Context, email, password string) (string, error) {
	subject, err := c.subjects.GetSubjectByEmail(ctx, email)
	if errors.Is(err, errors.ErrNotFound) {
		return "", errors.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	ok, err := auth.ComparePassword(password, subject.PasswordHash)
	if err != nil || !ok {
		return "", errors.ErrInvalidCredentials
	}
	return c.token(ctx, subject.Email)
}

func (c *console) listUsers(ctx context.Context) error {
	subjects, err := c.subjects.ListSubjects(ctx)
	if err != nil {
		return err
	}
	table := newTable(c.out, "ID", "Email", "Name", "Role", "Created", "Deleted")
	for _, s := range subjects {
		deleted := ""
		if s.DeletedAt != nil {
			deleted = s.DeletedAt.Format(time.RFC3339)
		}
		table.Append([]string{
			strconv.FormatInt(s.ID, 10), s.Email, s.Name, string(s.Role),
			s.CreatedAt.Format(time.RFC3339), deleted,
		})
	}
	table.Render()
	return nil
}

func (c *console) listSessions(ctx context.Context, kind domain.Kind, email string) error {
	owner, err := c.subjects.GetSubjectByEmail(ctx, email)
	if err != nil {
		return err
	}
	sessions, err := c.sessions.ListSessions(ctx, kind, owner.ID)
	if err != nil {
		return err
	}
	table := newTable(c.out, "ID", "Title", "Participants", "Messages", "Updated")
	for _, s := range sessions {
		participants := ""
		if s.Participants != nil {
			participants = s.Participants.User + " / " + s.Participants.Other
		}
		table.Append([]string{
			strconv.FormatInt(s.ID, 10), s.Title, participants,
			strconv.Itoa(len(s.Messages)), s.UpdatedAt.Format(time.RFC3339),
		})
	}
	table.Render()
	return nil
}

// inspect dumps raw keys under prefix. Only meaningful for the badger backend.
func inspect(out io.Writer, db *badger.DB, prefix string) error {
	table := newTable(out, "Key", "Size", "Value")
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			err := item.Value(func(v []byte) error {
				table.Append([]string{string(item.Key()), strconv.Itoa(len(v)), preview(v, 80)})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	table.Render()
	return nil
}

func preview(v []byte, n int) string {
	s := strings.ReplaceAll(string(v), "\n", " ")
	if len([]rune(s)) > n {
		return string([]rune(s)[:n]) + "..."
	}
	return s
}

func newTable(out io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}
