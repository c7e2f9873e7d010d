package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"carelink-server/internal/adminflow"
	"carelink-server/internal/client"
	"carelink-server/internal/utils"
	"carelink-server/pkg/logging"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: adminctl [flags] <command>

Commands:
  list                              list all appointments
  doctors                           list the doctor directory
  status -id ID -status STATUS      change an appointment's status
  reschedule -id ID [-date YYYY-MM-DD -time HH:MM] [-doctor DOCTOR_ID]
                                    reschedule an appointment

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	baseURL := flag.String("base-url", client.DefaultBaseURL, "API base URL")
	email := flag.String("email", os.Getenv("CARELINK_EMAIL"), "admin email")
	password := flag.String("password", os.Getenv("CARELINK_PASSWORD"), "admin password")
	token := flag.String("token", os.Getenv("CARELINK_TOKEN"), "bearer token (skips login)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	logger := logging.New(os.Getenv("LOG_LEVEL"))
	api := client.New(*baseURL, client.Session{Token: *token, Role: "admin"}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if *token == "" && *email != "" {
		if _, err := api.Login(ctx, client.Credentials{Email: *email, Password: *password}); err != nil {
			fail("login failed: %s", client.DisplayMessage(err))
		}
	}

	flow := adminflow.NewWorkflow(api, logger)

	switch flag.Arg(0) {
	case "list":
		runList(ctx, flow)
	case "doctors":
		runDoctors(ctx, api)
	case "status":
		runStatus(ctx, flow, flag.Args()[1:])
	case "reschedule":
		runReschedule(ctx, flow, flag.Args()[1:])
	default:
		usage()
		os.Exit(2)
	}
}

func runList(ctx context.Context, flow *adminflow.Workflow) {
	if err := flow.LoadAppointments(ctx); err != nil {
		fail("%s", client.DisplayMessage(err))
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTIME\tSTATUS\tRESCHEDULES\tREASON")
	for _, a := range flow.Appointments() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			a.ID, a.Date.Format("2006-01-02"), a.Time, utils.ToTitleCase(a.Status),
			a.RescheduleCount, a.Reason)
	}
	tw.Flush()
}

func runDoctors(ctx context.Context, api *client.Client) {
	doctors, err := api.ListDoctors(ctx)
	if err != nil {
		fail("%s", client.DisplayMessage(err))
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSPECIALIZATION\tACTIVE\tRATING")
	for _, d := range doctors {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%.1f\n",
			d.ID, d.Name, d.Specialization, d.IsActive, d.Rating)
	}
	tw.Flush()
}

func runStatus(ctx context.Context, flow *adminflow.Workflow, args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	id := fs.String("id", "", "appointment id")
	status := fs.String("status", "", "new status (confirmed or cancelled)")
	fs.Parse(args)
	if *id == "" || *status == "" {
		fail("status requires -id and -status")
	}

	if err := flow.ChangeStatus(ctx, *id, *status); err != nil {
		fail("%s", client.DisplayMessage(err))
	}
	fmt.Println(flow.Message())
}

func runReschedule(ctx context.Context, flow *adminflow.Workflow, args []string) {
	fs := flag.NewFlagSet("reschedule", flag.ExitOnError)
	id := fs.String("id", "", "appointment id")
	date := fs.String("date", "", "new date (YYYY-MM-DD)")
	hhmm := fs.String("time", "", "new time slot (HH:MM)")
	doctor := fs.String("doctor", "", "new doctor id")
	fs.Parse(args)
	if *id == "" {
		fail("reschedule requires -id")
	}

	if err := flow.LoadAppointments(ctx); err != nil {
		fail("%s", client.DisplayMessage(err))
	}
	if err := flow.OpenDetails(*id); err != nil {
		fail("%v", err)
	}
	if err := flow.StartReschedule(); err != nil {
		fail("%v", err)
	}
	if *date != "" {
		parsed, err := time.Parse("2006-01-02", *date)
		if err != nil {
			fail("invalid -date: %v", err)
		}
		flow.SetNewDate(parsed)
	}
	if *hhmm != "" {
		flow.SetNewTime(*hhmm)
	}
	if *doctor != "" {
		flow.SetNewDoctor(*doctor)
	}

	if err := flow.ConfirmReschedule(ctx); err != nil {
		fail("%s", client.DisplayMessage(err))
	}
	fmt.Println(flow.Message())
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
