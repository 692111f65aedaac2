package auth

import (
	"fmt"
	"io"
	"strings"
)

// WriteSessionCookieGuide prints how to copy the sessionid cookie out of a
// logged-in browser
func WriteSessionCookieGuide(w io.Writer) {
	rule := strings.Repeat("=", 72)

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "INSTAGRAM SESSION COOKIE")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "igexport never logs in. It reuses the sessionid cookie of a browser")
	fmt.Fprintln(w, "where you are already signed in to instagram.com.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "1. Open https://www.instagram.com and sign in")
	fmt.Fprintln(w, "2. Open Developer Tools (F12, or Cmd+Option+I on macOS)")
	fmt.Fprintln(w, "3. Application tab (Chrome) or Storage tab (Firefox) > Cookies")
	fmt.Fprintln(w, "   > https://www.instagram.com")
	fmt.Fprintln(w, "4. Copy the value of the 'sessionid' cookie")
	fmt.Fprintln(w, "   It looks like 12345678%3AaBcDeF...%3A12%3A...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The cookie grants full access to the account. Never share it.")
	fmt.Fprintln(w, "Sessions expire; run 'igexport auth set' again when requests are denied.")
	fmt.Fprintln(w, rule)
}
