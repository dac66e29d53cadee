package fedex

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&ClientConfig{
		Credentials: validCredentials(),
		Endpoint:    server.URL,
	})
	require.NoError(t, err)

	return client, server
}

func soapResponse(body string) string {
	return fmt.Sprintf(`<?xml version="1.0"?>
<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/">
  <SOAP-ENV:Body>%s</SOAP-ENV:Body>
</SOAP-ENV:Envelope>`, body)
}

func TestClientConfig_Validate(t *testing.T) {
	t.Run("fills endpoint and timeout defaults", func(t *testing.T) {
		cfg := &ClientConfig{Credentials: validCredentials()}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, ProductionEndpoint, cfg.Endpoint)
		assert.Equal(t, 30, cfg.TimeoutSeconds)
	})

	t.Run("uses sandbox endpoint when flagged", func(t *testing.T) {
		cfg := &ClientConfig{Credentials: validCredentials(), IsSandbox: true}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, SandboxEndpoint, cfg.Endpoint)
	})

	t.Run("rejects incomplete credentials", func(t *testing.T) {
		cfg := &ClientConfig{}
		assert.ErrorIs(t, cfg.Validate(), ErrIncompleteCredentials)
	})
}

func TestClient_Rate(t *testing.T) {
	t.Run("returns the parsed rate reply", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			fmt.Fprint(w, soapResponse(`
				<RateReply>
					<HighestSeverity>SUCCESS</HighestSeverity>
					<RateReplyDetails>
						<ServiceType>FEDEX_GROUND</ServiceType>
						<RatedShipmentDetails>
							<ShipmentRateDetail>
								<TotalNetCharge>
									<Currency>USD</Currency>
									<Amount>42.35</Amount>
								</TotalNetCharge>
							</ShipmentRateDetail>
						</RatedShipmentDetails>
					</RateReplyDetails>
				</RateReply>`))
		})

		reply, err := client.Rate(context.Background(), &RateRequest{})
		require.NoError(t, err)
		require.Len(t, reply.RateReplyDetails, 1)
		charge := reply.RateReplyDetails[0].RatedShipmentDetails[0].ShipmentRateDetail.TotalNetCharge
		assert.Equal(t, "USD", charge.Currency)
		assert.Equal(t, "42.35", charge.Amount)
	})

	t.Run("maps error notifications", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, soapResponse(`
				<RateReply>
					<HighestSeverity>ERROR</HighestSeverity>
					<Notifications>
						<Severity>ERROR</Severity>
						<Code>556</Code>
						<Message>Service is not allowed.</Message>
					</Notifications>
				</RateReply>`))
		})

		_, err := client.Rate(context.Background(), &RateRequest{})
		var reqErr *RequestError
		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, "556", reqErr.Code)
		assert.Equal(t, "Service is not allowed.", reqErr.Message)
	})

	t.Run("maps SOAP faults", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, soapResponse(`
				<Fault>
					<faultcode>SOAP-ENV:Server</faultcode>
					<faultstring>Authentication Failed</faultstring>
				</Fault>`))
		})

		_, err := client.Rate(context.Background(), &RateRequest{})
		var reqErr *RequestError
		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, "Authentication Failed", reqErr.Message)
	})

	t.Run("maps HTTP errors without a parseable body", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			fmt.Fprint(w, "bad gateway")
		})

		_, err := client.Rate(context.Background(), &RateRequest{})
		var reqErr *RequestError
		require.ErrorAs(t, err, &reqErr)
		assert.Contains(t, reqErr.Message, "502")
	})

	t.Run("maps transport failures", func(t *testing.T) {
		client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
		server.Close()

		_, err := client.Rate(context.Background(), &RateRequest{})
		var reqErr *RequestError
		assert.ErrorAs(t, err, &reqErr)
	})
}

func TestClient_ProcessShipment(t *testing.T) {
	labelPNG := []byte{0x89, 'P', 'N', 'G', '\r', '\n'}

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, soapResponse(fmt.Sprintf(`
			<ProcessShipmentReply>
				<HighestSeverity>SUCCESS</HighestSeverity>
				<CompletedShipmentDetail>
					<MasterTrackingId>
						<TrackingNumber>794100000001</TrackingNumber>
					</MasterTrackingId>
					<CompletedPackageDetails>
						<SequenceNumber>1</SequenceNumber>
						<TrackingIds>
							<TrackingNumber>794100000001</TrackingNumber>
						</TrackingIds>
						<Label>
							<Parts>
								<Image>%s</Image>
							</Parts>
						</Label>
					</CompletedPackageDetails>
					<ShipmentRating>
						<ShipmentRateDetails>
							<TotalNetCharge>
								<Currency>USD</Currency>
								<Amount>18.20</Amount>
							</TotalNetCharge>
						</ShipmentRateDetails>
					</ShipmentRating>
				</CompletedShipmentDetail>
			</ProcessShipmentReply>`, base64.StdEncoding.EncodeToString(labelPNG))))
	})

	reply, err := client.ProcessShipment(context.Background(), &ProcessShipmentRequest{})
	require.NoError(t, err)

	detail := reply.CompletedShipmentDetail
	assert.Equal(t, "794100000001", detail.MasterTrackingID.TrackingNumber)
	require.Len(t, detail.CompletedPackageDetails, 1)

	pkg := detail.CompletedPackageDetails[0]
	assert.Equal(t, "794100000001", pkg.TrackingIDs[0].TrackingNumber)
	require.Len(t, pkg.Label.Parts, 1)
	assert.Equal(t, labelPNG, pkg.Label.Parts[0].Image, "label image is base64-decoded")

	charge := detail.ShipmentRating.ShipmentRateDetails[0].TotalNetCharge
	assert.Equal(t, "18.20", charge.Amount)
}
