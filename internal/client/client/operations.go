package client

const userFields = `
fragment UserFields on User {
  id
  email
  firstName
  lastName
  role
  emailVerified
  profile {
    onboardingCompleted
    onboardingStep
  }
}`

const authPayloadFields = `success message accessToken expiresIn otpRequired deviceTrusted user { ...UserFields }`

// operation is one GraphQL document and the path of its payload under data.
type operation struct {
	name      string
	namespace string
	field     string
	document  string
}

var (
	opSignIn = operation{"SignIn", "auth", "signIn", `
mutation SignIn($input: SignInInput!) {
  auth { signIn(input: $input) { ` + authPayloadFields + ` } }
}` + userFields}

	opSignUp = operation{"SignUp", "auth", "signUp", `
mutation SignUp($input: SignUpInput!) {
  auth { signUp(input: $input) { success message user { ...UserFields } } }
}` + userFields}

	opLogout = operation{"Logout", "auth", "logout", `
mutation Logout {
  auth { logout { success message } }
}`}

	opRefreshToken = operation{"RefreshToken", "auth", "refreshToken", `
mutation RefreshToken {
  auth { refreshToken { ` + authPayloadFields + ` } }
}` + userFields}

	opRequestPasswordReset = operation{"RequestPasswordReset", "auth", "requestPasswordReset", `
mutation RequestPasswordReset($email: String!) {
  auth { requestPasswordReset(email: $email) { success message } }
}`}

	opResetPassword = operation{"ResetPassword", "auth", "resetPassword", `
mutation ResetPassword($input: ResetPasswordInput!) {
  auth { resetPassword(input: $input) { success message } }
}`}

	opChangePassword = operation{"ChangePassword", "auth", "changePassword", `
mutation ChangePassword($input: ChangePasswordInput!) {
  auth { changePassword(input: $input) { success message } }
}`}

	opMe = operation{"Me", "auth", "me", `
query Me {
  auth { me { ...UserFields } }
}` + userFields}

	opSendOTP = operation{"SendOtp", "otps", "sendOtp", `
mutation SendOtp($input: SendOtpInput!) {
  otps { sendOtp(input: $input) { success message } }
}`}

	opVerifyOTP = operation{"VerifyOtp", "otps", "verifyOtp", `
mutation VerifyOtp($input: VerifyOtpInput!) {
  otps { verifyOtp(input: $input) { ` + authPayloadFields + ` } }
}` + userFields}

	opVerifyLink = operation{"VerifyLink", "otps", "verifyLink", `
mutation VerifyLink($token: String!) {
  otps { verifyLink(token: $token) { ` + authPayloadFields + ` } }
}` + userFields}

	opCheckDeviceTrust = operation{"CheckDeviceTrust", "otps", "checkDeviceTrust", `
query CheckDeviceTrust($input: DeviceTrustInput!) {
  otps { checkDeviceTrust(input: $input) { success message trusted } }
}`}

	opCompleteOnboarding = operation{"CompleteOnboarding", "users", "completeOnboarding", `
mutation CompleteOnboarding($input: CompleteOnboardingInput!) {
  users { completeOnboarding(input: $input) { success message user { ...UserFields } } }
}` + userFields}
)
