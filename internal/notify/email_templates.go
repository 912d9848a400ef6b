package notify

const inviteEmailHTML = `<!DOCTYPE html>
<html>
<head>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; line-height: 1.6; color: #1f2937; background-color: #f0f7ff; margin: 0; padding: 20px; }
.container { padding: 20px; max-width: 600px; margin: 20px auto; background-color: #ffffff; border: 1px solid #bfdbfe; border-radius: 8px; }
.header { font-size: 24px; font-weight: bold; color: #1d4ed8; margin-bottom: 15px; }
.content { padding: 30px; }
.button { display: inline-block; background-color: #1d4ed8; color: #ffffff; padding: 12px 24px; border-radius: 5px; text-decoration: none; font-weight: bold; margin: 20px 0; }
.footer { margin-top: 20px; font-size: 12px; color: #6b7280; text-align: center; }
p { margin-bottom: 1em; }
</style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>You're invited to %s</h1>
    </div>
    <div class="content">
      <p>Hi %s,</p>
      <p>You've been invited to join %s on Plumbtix as a %s. Click below to set
      up your account. This link expires on %s.</p>
      <a class="button" href="%s">Accept invitation</a>
      <p>If the button doesn't work, paste this link into your browser:<br>%s</p>
    </div>
    <div class="footer">
      © %d Plumbtix. All rights reserved.
    </div>
  </div>
</body>
</html>`

const claimEmailHTML = `<!DOCTYPE html>
<html>
<head>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; line-height: 1.6; color: #1f2937; background-color: #f0f7ff; margin: 0; padding: 20px; }
.container { padding: 20px; max-width: 600px; margin: 20px auto; background-color: #ffffff; border: 1px solid #bfdbfe; border-radius: 8px; }
.header { font-size: 24px; font-weight: bold; color: #1d4ed8; margin-bottom: 15px; }
.content { padding: 30px; }
.button { display: inline-block; background-color: #1d4ed8; color: #ffffff; padding: 12px 24px; border-radius: 5px; text-decoration: none; font-weight: bold; margin: 20px 0; }
.footer { margin-top: 20px; font-size: 12px; color: #6b7280; text-align: center; }
p { margin-bottom: 1em; }
</style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Claim your resident account</h1>
    </div>
    <div class="content">
      <p>Hi %s,</p>
      <p>Your property manager set up a resident account for %s%s. Claim it to
      submit and track maintenance requests online.</p>
      <a class="button" href="%s">Claim account</a>
      <p>If the button doesn't work, paste this link into your browser:<br>%s</p>
    </div>
    <div class="footer">
      © %d Plumbtix. All rights reserved.
    </div>
  </div>
</body>
</html>`

const statusChangeEmailHTML = `<!DOCTYPE html>
<html>
<head>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; line-height: 1.6; color: #1f2937; background-color: #f0f7ff; margin: 0; padding: 20px; }
.container { padding: 20px; max-width: 600px; margin: 20px auto; background-color: #ffffff; border: 1px solid #bfdbfe; border-radius: 8px; }
.header { font-size: 24px; font-weight: bold; color: #1d4ed8; margin-bottom: 15px; }
.content { padding: 20px; }
.status { font-size: 20px; font-weight: bold; color: #1d4ed8; background-color: #f1f5f9; padding: 10px 16px; border-radius: 5px; display: inline-block; }
.footer { margin-top: 20px; font-size: 12px; color: #6b7280; text-align: center; }
p { margin-bottom: 1em; }
</style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h2>Work order #%d updated</h2>
    </div>
    <div class="content">
      <p>Your %s work order changed status:</p>
      <p><span class="status">%s → %s</span></p>
      <p>%s</p>
    </div>
    <div class="footer">
      © %d Plumbtix. All rights reserved.
    </div>
  </div>
</body>
</html>`
