package executor

import (
	"crypto/x509"
	"errors"
	"net"
	"strings"
	"syscall"
)

// DescribeError turns a transport error into an actionable message for the status bar
func DescribeError(err error) string {
	if err == nil {
		return ""
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "No se pudo resolver el servidor - verifica la URL base y la red"
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return "Conexión rechazada - verifica que el servidor esté en ejecución"
	case errors.Is(err, syscall.ECONNRESET):
		return "El servidor cerró la conexión inesperadamente"
	case errors.Is(err, syscall.ENETUNREACH):
		return "Red inaccesible - revisa la conexión"
	case errors.Is(err, syscall.EHOSTUNREACH):
		return "Servidor inaccesible - revisa que esté en línea"
	}

	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return "Certificado TLS no confiable - configura tls.ca_file"
	}
	var hostnameErr x509.HostnameError
	if errors.As(err, &hostnameErr) {
		return "El certificado TLS no corresponde al servidor"
	}
	var invalidCert x509.CertificateInvalidError
	if errors.As(err, &invalidCert) {
		return "Certificado TLS inválido: " + invalidCert.Error()
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "El servidor tardó demasiado en responder"
	}

	return describeErrorString(err.Error())
}

// describeErrorString classifies errors that carry no typed cause
func describeErrorString(errStr string) string {
	errLower := strings.ToLower(errStr)

	switch {
	case strings.Contains(errLower, "no such host"):
		return "No se pudo resolver el servidor - verifica la URL base y la red"
	case strings.Contains(errLower, "connection refused"):
		return "Conexión rechazada - verifica que el servidor esté en ejecución"
	case strings.Contains(errLower, "connection reset"):
		return "El servidor cerró la conexión inesperadamente"
	case strings.Contains(errLower, "network is unreachable"), strings.Contains(errLower, "no route to host"):
		return "Red inaccesible - revisa la conexión"
	case strings.Contains(errLower, "x509"), strings.Contains(errLower, "certificate"), strings.Contains(errLower, "tls"):
		return "Error TLS - revisa la configuración de certificados"
	case strings.Contains(errLower, "unsupported protocol"), strings.Contains(errLower, "invalid url"):
		return "URL base inválida - usa http:// o https://"
	case strings.Contains(errLower, "eof"):
		return "La conexión se cerró antes de completar la respuesta"
	}
	return "Error de conexión con el servidor: " + errStr
}
