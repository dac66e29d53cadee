package fedex

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxResponseSize is the maximum allowed response size from the FedEx web
// services (10MB); label images dominate reply size.
const maxResponseSize = 10 * 1024 * 1024

const (
	// ProductionEndpoint is the production web-services endpoint
	ProductionEndpoint = "https://ws.fedex.com:443/web-services"
	// SandboxEndpoint is the test web-services endpoint
	SandboxEndpoint = "https://wsbeta.fedex.com:443/web-services"

	rateNamespace = "http://fedex.com/ws/rate/v6"
	shipNamespace = "http://fedex.com/ws/ship/v7"
)

// ClientConfig holds the transport configuration for the FedEx web services.
type ClientConfig struct {
	Credentials    Credentials
	Endpoint       string
	IsSandbox      bool
	TimeoutSeconds int
}

// Validate validates the client configuration and fills endpoint defaults.
func (c *ClientConfig) Validate() error {
	if err := c.Credentials.Validate(); err != nil {
		return err
	}
	if c.Endpoint == "" {
		if c.IsSandbox {
			c.Endpoint = SandboxEndpoint
		} else {
			c.Endpoint = ProductionEndpoint
		}
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// Client is the HTTP transport for the FedEx rate and ship services. It
// implements RateTransport and ShipTransport; the orchestrating services
// depend only on those interfaces.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a new FedEx web-services client.
func NewClient(config *ClientConfig) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// ---------------------------------------------------------------------------
// Wire documents
// ---------------------------------------------------------------------------

type webAuthenticationDetail struct {
	UserCredential struct {
		Key      string `xml:"Key"`
		Password string `xml:"Password"`
	} `xml:"UserCredential"`
}

type clientDetail struct {
	AccountNumber string `xml:"AccountNumber"`
	MeterNumber   string `xml:"MeterNumber"`
	IntegratorID  string `xml:"IntegratorId,omitempty"`
}

type versionID struct {
	ServiceID string `xml:"ServiceId"`
	Major     string `xml:"Major"`
}

type requestDocument struct {
	XMLName                 xml.Name
	Namespace               string                  `xml:"xmlns,attr"`
	WebAuthenticationDetail webAuthenticationDetail `xml:"WebAuthenticationDetail"`
	ClientDetail            clientDetail            `xml:"ClientDetail"`
	TransactionDetail       TransactionDetail       `xml:"TransactionDetail"`
	Version                 versionID               `xml:"Version"`
	RequestedShipment       RequestedShipment       `xml:"RequestedShipment"`
}

type soapEnvelope struct {
	XMLName xml.Name `xml:"SOAP-ENV:Envelope"`
	NS      string   `xml:"xmlns:SOAP-ENV,attr"`
	Body    soapBody `xml:"SOAP-ENV:Body"`
}

type soapBody struct {
	Payload []byte `xml:",innerxml"`
}

type replyEnvelope struct {
	Body struct {
		Fault                *soapFault            `xml:"Fault"`
		RateReply            *RateReply            `xml:"RateReply"`
		ProcessShipmentReply *ProcessShipmentReply `xml:"ProcessShipmentReply"`
	} `xml:"Body"`
}

type soapFault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

// ---------------------------------------------------------------------------
// Transport implementation
// ---------------------------------------------------------------------------

// Rate sends a rate-quote request.
func (c *Client) Rate(ctx context.Context, req *RateRequest) (*RateReply, error) {
	doc := c.newDocument("RateRequest", rateNamespace, "crs", "6", req.TransactionDetail, req.RequestedShipment)
	reply, err := c.send(ctx, doc)
	if err != nil {
		return nil, err
	}
	if reply.Body.RateReply == nil {
		return nil, &RequestError{Message: "empty rate reply"}
	}
	if err := checkSeverity(reply.Body.RateReply.HighestSeverity, reply.Body.RateReply.Notifications); err != nil {
		return nil, err
	}
	return reply.Body.RateReply, nil
}

// ProcessShipment sends a label-generation request for one package.
func (c *Client) ProcessShipment(ctx context.Context, req *ProcessShipmentRequest) (*ProcessShipmentReply, error) {
	doc := c.newDocument("ProcessShipmentRequest", shipNamespace, "ship", "7", req.TransactionDetail, req.RequestedShipment)
	reply, err := c.send(ctx, doc)
	if err != nil {
		return nil, err
	}
	if reply.Body.ProcessShipmentReply == nil {
		return nil, &RequestError{Message: "empty ship reply"}
	}
	if err := checkSeverity(reply.Body.ProcessShipmentReply.HighestSeverity, reply.Body.ProcessShipmentReply.Notifications); err != nil {
		return nil, err
	}
	return reply.Body.ProcessShipmentReply, nil
}

func (c *Client) newDocument(root, namespace, serviceID, major string, txn TransactionDetail, shipment RequestedShipment) requestDocument {
	doc := requestDocument{
		XMLName:           xml.Name{Local: root},
		Namespace:         namespace,
		TransactionDetail: txn,
		Version:           versionID{ServiceID: serviceID, Major: major},
		RequestedShipment: shipment,
	}
	doc.WebAuthenticationDetail.UserCredential.Key = c.config.Credentials.Key
	doc.WebAuthenticationDetail.UserCredential.Password = c.config.Credentials.Password
	doc.ClientDetail = clientDetail{
		AccountNumber: c.config.Credentials.AccountNumber,
		MeterNumber:   c.config.Credentials.MeterNumber,
		IntegratorID:  c.config.Credentials.IntegratorID,
	}
	return doc
}

// send performs one HTTP round trip to the FedEx endpoint.
func (c *Client) send(ctx context.Context, doc requestDocument) (*replyEnvelope, error) {
	payload, err := xml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("fedex: failed to encode request: %w", err)
	}

	envelope, err := xml.Marshal(soapEnvelope{
		NS:   "http://schemas.xmlsoap.org/soap/envelope/",
		Body: soapBody{Payload: payload},
	})
	if err != nil {
		return nil, fmt.Errorf("fedex: failed to encode envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(envelope))
	if err != nil {
		return nil, fmt.Errorf("fedex: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("fedex: failed to read response: %w", err)
	}

	var reply replyEnvelope
	if err := xml.Unmarshal(body, &reply); err != nil {
		if resp.StatusCode >= 400 {
			return nil, &RequestError{Message: fmt.Sprintf("HTTP %d", resp.StatusCode)}
		}
		return nil, fmt.Errorf("fedex: failed to parse response: %w", err)
	}
	if reply.Body.Fault != nil {
		return nil, &RequestError{Code: reply.Body.Fault.Code, Message: reply.Body.Fault.String}
	}
	if resp.StatusCode >= 400 {
		return nil, &RequestError{Message: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}
	return &reply, nil
}

// checkSeverity maps error-level reply notifications to a RequestError.
func checkSeverity(highest string, notifications []Notification) error {
	if highest != "ERROR" && highest != "FAILURE" {
		return nil
	}
	for _, n := range notifications {
		if n.Severity == "ERROR" || n.Severity == "FAILURE" {
			return &RequestError{Code: n.Code, Message: n.Message}
		}
	}
	return &RequestError{Message: fmt.Sprintf("request failed with severity %s", highest)}
}

// Interface guards
var (
	_ RateTransport = (*Client)(nil)
	_ ShipTransport = (*Client)(nil)
)
