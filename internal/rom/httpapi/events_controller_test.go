package httpapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"gaitbase/internal/rom/domain"
	"gaitbase/internal/rom/httpapi"
	"gaitbase/internal/rom/httpapi/internal"
	"gaitbase/internal/rom/usecases"
	mockusecases "gaitbase/test/unit/doubles/rom/usecases"

	"github.com/gorilla/websocket"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("EventsController", func() {
	var s stack
	var controller *httpapi.EventsController
	var server *httptest.Server
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
		s = newStack(GinkgoT().TempDir())

		var err error
		controller, err = httpapi.NewEventsController(s.sessions, s.broker)
		Expect(err).NotTo(HaveOccurred())

		router := http.NewServeMux()
		controller.AddRoutes(router)
		server = httptest.NewServer(router)
	})

	AfterEach(func() {
		controller.Shutdown()
		server.Close()
	})

	When("the session does not exist", func() {
		It("should reply not found instead of upgrading", func() {
			resp, err := http.Get(server.URL + "/v1/sessions/missing/events")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		})
	})

	When("a field of the session changes", func() {
		var session *usecases.Session
		var conn *websocket.Conn
		var events chan internal.SessionEvent

		BeforeEach(func() {
			patientID, err := s.patients.Create(ctx, domain.Identity{PatientCode: "C1", FirstName: "Anna", LastName: "Virta"})
			Expect(err).NotTo(HaveOccurred())
			session, err = s.sessions.Create(ctx, patientID)
			Expect(err).NotTo(HaveOccurred())

			url := "ws" + strings.TrimPrefix(server.URL, "http") + "/v1/sessions/" + session.ID + "/events"
			conn, _, err = websocket.DefaultDialer.Dial(url, nil)
			Expect(err).NotTo(HaveOccurred())

			events = make(chan internal.SessionEvent, 100)
			go func() {
				defer close(events)
				for {
					var event internal.SessionEvent
					if err := conn.ReadJSON(&event); err != nil {
						return
					}
					events <- event
				}
			}()
		})

		AfterEach(func() {
			conn.Close()
		})

		It("should push the changed values to the client", func() {
			height := 150.0
			// the client registers asynchronously; keep editing until it hears one
			Eventually(func() int {
				session.Lock()
				defer session.Unlock()
				_, err := session.Set(ctx, "AntropPituus", domain.Number(height))
				Expect(err).NotTo(HaveOccurred())
				height++
				return len(events)
			}).Should(BeNumerically(">", 0))

			var event internal.SessionEvent
			Eventually(events).Should(Receive(&event))
			Expect(event.Type).To(Equal("changed"))
			Expect(event.SessionID).To(Equal(session.ID))
			Expect(event.Values).To(HaveKey("AntropPituus"))
		})

		It("should end the stream when the session closes", func() {
			height := 150.0
			Eventually(func() int {
				session.Lock()
				defer session.Unlock()
				_, err := session.Set(ctx, "AntropPituus", domain.Number(height))
				Expect(err).NotTo(HaveOccurred())
				height++
				return len(events)
			}).Should(BeNumerically(">", 0))

			Expect(s.sessions.Close(ctx, session.ID, true)).To(Succeed())

			var last internal.SessionEvent
			Eventually(func() string {
				select {
				case event, ok := <-events:
					if ok {
						last = event
					}
				default:
				}
				return last.Type
			}).Should(Equal("closed"))
			Eventually(events).Should(BeClosed())
		})
	})

	When("the session closes while the client connects", func() {
		It("should send the closed event and end the stream", func() {
			ctrl := gomock.NewController(GinkgoT())
			sessions := mockusecases.NewMockSessionService(ctrl)
			gomock.InOrder(
				sessions.EXPECT().Get("s1").Return(nil, nil),
				sessions.EXPECT().Get("s1").Return(nil, usecases.ErrSessionNotFound),
			)

			late, err := httpapi.NewEventsController(sessions, s.broker)
			Expect(err).NotTo(HaveOccurred())
			defer late.Shutdown()
			router := http.NewServeMux()
			late.AddRoutes(router)
			lateServer := httptest.NewServer(router)
			defer lateServer.Close()

			url := "ws" + strings.TrimPrefix(lateServer.URL, "http") + "/v1/sessions/s1/events"
			conn, _, err := websocket.DefaultDialer.Dial(url, nil)
			Expect(err).NotTo(HaveOccurred())
			defer conn.Close()

			var event internal.SessionEvent
			Expect(conn.ReadJSON(&event)).To(Succeed())
			Expect(event.Type).To(Equal("closed"))
			Expect(event.SessionID).To(Equal("s1"))

			_, _, err = conn.ReadMessage()
			Expect(websocket.IsCloseError(err, websocket.CloseNormalClosure)).To(BeTrue())
		})
	})
})
