package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Matches the server's default PORT in confs.
const DEFAULT_SERVER = "http://localhost:5000"

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)
)

type step int

const (
	stepEnteringEmail step = iota
	stepEnteringLoginPassword
	stepLoggingIn
	stepEnteringDeviceID
	stepEnteringDeviceName
	stepEnteringDeviceType
	stepEnteringLocation
	stepRegisteringDevice
	stepSendingTestReading
	stepComplete
)

type model struct {
	step         step
	serverURL    string
	email        string
	loginPass    string
	authToken    string
	deviceID     string
	deviceName   string
	deviceType   string
	location     string
	currentInput string
	message      string
	quitting     bool
}

type loginSuccessMsg struct{ token string }
type registerSuccessMsg struct{}
type readingSuccessMsg struct{}
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func initialModel() model {
	serverURL := os.Getenv("SMARTDRISHTI_SERVER")
	if serverURL == "" {
		serverURL = DEFAULT_SERVER
	}
	return model{
		step:      stepEnteringEmail,
		serverURL: serverURL,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func loginUser(serverURL, email, password string) tea.Cmd {
	return func() tea.Msg {
		client := &http.Client{Timeout: 10 * time.Second}

		payload := map[string]string{
			"email":    email,
			"password": password,
		}

		jsonData, _ := json.Marshal(payload)
		loginURL := serverURL + "/api/auth/login"

		req, _ := http.NewRequest("POST", loginURL, bytes.NewBuffer(jsonData))
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return errMsg{fmt.Errorf("server not reachable at %s", serverURL)}
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return errMsg{fmt.Errorf("login failed - check your email and password")}
		}

		var result map[string]interface{}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return errMsg{fmt.Errorf("unexpected response from server")}
		}

		token, ok := result["token"].(string)
		if !ok || token == "" {
			return errMsg{fmt.Errorf("unexpected response from server")}
		}

		return loginSuccessMsg{token: token}
	}
}

func registerDevice(serverURL, token, deviceID, name, deviceType, location string) tea.Cmd {
	return func() tea.Msg {
		client := &http.Client{Timeout: 10 * time.Second}

		payload := map[string]string{
			"device_id": deviceID,
			"name":      name,
			"type":      deviceType,
			"location":  location,
		}

		jsonData, _ := json.Marshal(payload)
		req, _ := http.NewRequest("POST", serverURL+"/api/iot/devices", bytes.NewBuffer(jsonData))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := client.Do(req)
		if err != nil {
			return errMsg{fmt.Errorf("failed to register device: %w", err)}
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			body, _ := io.ReadAll(resp.Body)
			return errMsg{fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))}
		}

		return registerSuccessMsg{}
	}
}

func sendTestReading(serverURL, token, deviceID string) tea.Cmd {
	return func() tea.Msg {
		client := &http.Client{Timeout: 10 * time.Second}

		payload := map[string]interface{}{
			"device_id":   deviceID,
			"temperature": 21.5,
			"humidity":    45.0,
			"pressure":    1013.2,
			"light_level": 300.0,
		}

		jsonData, _ := json.Marshal(payload)
		req, _ := http.NewRequest("POST", serverURL+"/api/iot/sensor-data", bytes.NewBuffer(jsonData))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := client.Do(req)
		if err != nil {
			return errMsg{fmt.Errorf("failed to send reading: %w", err)}
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return errMsg{fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))}
		}

		return readingSuccessMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "backspace":
			if len(m.currentInput) > 0 {
				m.currentInput = m.currentInput[:len(m.currentInput)-1]
			}

		default:
			switch m.step {
			case stepEnteringEmail, stepEnteringLoginPassword, stepEnteringDeviceID,
				stepEnteringDeviceName, stepEnteringDeviceType, stepEnteringLocation:
				m.currentInput += msg.String()
			}

		case "enter":
			switch m.step {
			case stepEnteringEmail:
				if m.currentInput != "" {
					m.email = m.currentInput
					m.currentInput = ""
					m.step = stepEnteringLoginPassword
				}

			case stepEnteringLoginPassword:
				if m.currentInput != "" {
					m.loginPass = m.currentInput
					m.currentInput = ""
					m.step = stepLoggingIn
					m.message = "Logging in..."
					return m, loginUser(m.serverURL, m.email, m.loginPass)
				}

			case stepEnteringDeviceID:
				if m.currentInput != "" {
					m.deviceID = m.currentInput
					m.currentInput = ""
					m.step = stepEnteringDeviceName
				}

			case stepEnteringDeviceName:
				if m.currentInput != "" {
					m.deviceName = m.currentInput
					m.currentInput = ""
					m.step = stepEnteringDeviceType
				}

			case stepEnteringDeviceType:
				if m.currentInput == "" {
					m.currentInput = "sensor-node"
				}
				m.deviceType = m.currentInput
				m.currentInput = ""
				m.step = stepEnteringLocation

			case stepEnteringLocation:
				m.location = m.currentInput
				m.currentInput = ""
				m.step = stepRegisteringDevice
				m.message = fmt.Sprintf("Registering %s...", m.deviceName)
				return m, registerDevice(m.serverURL, m.authToken, m.deviceID, m.deviceName, m.deviceType, m.location)

			case stepComplete:
				m.quitting = true
				return m, tea.Quit
			}
		}

	case loginSuccessMsg:
		m.authToken = msg.token
		m.step = stepEnteringDeviceID
		m.message = successStyle.Render("✓ Logged in as " + m.email)

	case registerSuccessMsg:
		m.step = stepSendingTestReading
		m.message = "Sending test reading..."
		return m, sendTestReading(m.serverURL, m.authToken, m.deviceID)

	case readingSuccessMsg:
		m.step = stepComplete
		m.message = successStyle.Render("✓ Device registered and first reading received!\nIt should now appear on your dashboard.")

	case errMsg:
		m.message = errorStyle.Render("✗ " + msg.err.Error())
		// Restart from the first input that could have caused the failure
		if m.authToken == "" {
			m.step = stepEnteringEmail
		} else {
			m.step = stepEnteringDeviceID
		}
	}

	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("🔧 SmartDrishti Device Setup\n\n"))

	if m.message != "" {
		s.WriteString(m.message + "\n\n")
	}

	switch m.step {
	case stepEnteringEmail:
		s.WriteString(promptStyle.Render("Enter your email:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringLoginPassword:
		s.WriteString(promptStyle.Render("Enter your password:\n"))
		s.WriteString(inputStyle.Render("> " + strings.Repeat("•", len(m.currentInput))))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringDeviceID:
		s.WriteString(promptStyle.Render("Enter a device ID (printed on the board or pick your own):\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringDeviceName:
		s.WriteString(promptStyle.Render("Enter a friendly device name:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringDeviceType:
		s.WriteString(promptStyle.Render("Enter the device type (Enter for sensor-node):\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepEnteringLocation:
		s.WriteString(promptStyle.Render("Where is this device? (optional):\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepComplete:
		s.WriteString("Press Enter to exit\n")
	}

	return s.String()
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
