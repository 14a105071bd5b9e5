package remediation

import (
	"fmt"
	"net"

	"github.com/fyrsmithlabs/remedy/internal/extraction"
	"github.com/fyrsmithlabs/remedy/internal/faults"
	"github.com/fyrsmithlabs/remedy/internal/fix"
)

// NetworkTLSGenerator diagnoses certificate failures. Each known failure
// scores 0.6; an unrecognized TLS failure scores 0.5.
type NetworkTLSGenerator struct{}

func (*NetworkTLSGenerator) Name() string { return "network_tls" }

func (g *NetworkTLSGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	if faults.Subject(err).Category() != faults.CategoryNetwork || !mentions(err, "certificate", "tls", "ssl", "x509") {
		return nil
	}
	host := hostOf(params)
	port := params.Value("port")
	if port == "" {
		port = "443"
	}
	probe := fmt.Sprintf("openssl s_client -connect %s -servername %s", net.JoinHostPort(host, port), host)

	var description, explanation string
	confidence := 0.6
	switch {
	case mentions(err, "self signed", "self-signed", "unknown authority"):
		description = "Trust the self-signed certificate presented by " + host
		explanation = "Add the issuing CA to the trust store instead of disabling verification"
	case mentions(err, "hostname mismatch", "not valid for", "doesn't match", "does not match"):
		description = "Fix certificate hostname mismatch for " + host
		explanation = "Connect using a name listed in the certificate, or reissue it with the right SAN"
	case mentions(err, "expired", "not yet valid"):
		description = "Renew the expired certificate for " + host
		explanation = "Check the validity window in the probe output"
	default:
		description = "Diagnose TLS handshake failure with " + host
		explanation = "Inspect the certificate chain the server presents"
		confidence = 0.5
	}
	return adviseCommand(g.Name(), description, fix.TypeManualIntervention, confidence, explanation, probe)
}

// NetworkConnectionGenerator distinguishes refused connections, DNS
// failures and timeouts. Recognized cases score 0.6; anything else 0.4.
type NetworkConnectionGenerator struct{}

func (*NetworkConnectionGenerator) Name() string { return "network_connection" }

func (g *NetworkConnectionGenerator) Generate(err faults.Error, params extraction.Parameters, source string) *fix.Autocorrection {
	refused := params.Value(extraction.KeyPattern) == "connection_refused" || mentions(err, "connection refused")
	if faults.Subject(err).Category() != faults.CategoryNetwork && !refused {
		return nil
	}
	host := hostOf(params)
	port := params.Value("port")

	switch {
	case refused:
		target := host
		if port != "" {
			target = net.JoinHostPort(host, port)
		}
		cmd := "nc -zv " + quoteShell(host)
		if port != "" {
			cmd += " " + port
		}
		return adviseCommand(g.Name(), "Check that the service at "+target+" is running", fix.TypeManualIntervention, 0.6,
			"Nothing is listening on the target address", cmd)
	case mentions(err, "no such host", "dns", "name resolution", "could not resolve"):
		return adviseCommand(g.Name(), "Check DNS resolution for "+host, fix.TypeManualIntervention, 0.6,
			"The host name does not resolve", "nslookup "+quoteShell(host))
	case mentions(err, "timeout", "timed out", "deadline exceeded"):
		return adviseCommand(g.Name(), "Check network connectivity to "+host, fix.TypeManualIntervention, 0.6,
			"The remote end did not answer in time", "ping -c 3 "+quoteShell(host))
	}

	url := params.Value("url")
	if url == "" {
		return adviseCommand(g.Name(), "Check network connectivity to "+host, fix.TypeManualIntervention, 0.4,
			"Verify the remote endpoint is reachable", "ping -c 3 "+quoteShell(host))
	}
	return adviseCommand(g.Name(), "Check network connectivity to "+host, fix.TypeManualIntervention, 0.4,
		"Verify the remote endpoint is reachable", "curl -v "+quoteShell(url))
}

func hostOf(params extraction.Parameters) string {
	if h := params.First("host", "url"); h != "" {
		return h
	}
	return "the remote host"
}
