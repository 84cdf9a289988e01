package web

// formHTML is the selection form. It talks to the JSON API: a session
// is opened on page load, the target app dropdown is repopulated every
// time the LOB changes, and submission errors (including the list of
// valid alternatives on an invalid pairing) are rendered inline.
const formHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>releasegate</title>
<style>
  body { font-family: sans-serif; max-width: 40rem; margin: 2rem auto; }
  label { display: block; margin-top: 1rem; font-weight: bold; }
  select, input, textarea { width: 100%; padding: 0.4rem; margin-top: 0.2rem; }
  button { margin-top: 1.5rem; padding: 0.5rem 1.5rem; }
  #status { margin-top: 1rem; white-space: pre-wrap; }
  .error { color: #b00020; }
  .ok { color: #1b5e20; }
</style>
</head>
<body>
<h1>Release dispatch</h1>
<form id="form">
  <label for="lob">Line of Business</label>
  <select id="lob" required></select>

  <label for="app">Target application</label>
  <select id="app" required></select>

  <label for="project">Project name</label>
  <input id="project" required>

  <label for="type">Release type</label>
  <input id="type" required>

  <label for="desc">Release description</label>
  <textarea id="desc" rows="3"></textarea>

  <label for="token">Dispatch token</label>
  <input id="token" type="password" required>

  <button type="submit">Dispatch release</button>
</form>
<div id="status"></div>
<script>
const status = document.getElementById('status');
const lobSel = document.getElementById('lob');
const appSel = document.getElementById('app');

async function api(path, opts) {
  const resp = await fetch(path, opts);
  const body = await resp.json().catch(() => ({}));
  return { ok: resp.ok, status: resp.status, body };
}

async function start() {
  const r = await api('/api/session', { method: 'POST' });
  if (!r.ok) {
    status.className = 'error';
    status.textContent = r.body.error || 'cannot load manifest';
    return;
  }
  lobSel.innerHTML = '';
  for (const lob of r.body.lobs) {
    const o = document.createElement('option');
    o.value = lob.key;
    o.textContent = lob.name ? lob.key + ' — ' + lob.name : lob.key;
    lobSel.appendChild(o);
  }
  if (r.body.lobs.length) await onLob();
}

async function onLob() {
  await api('/api/select', {
    method: 'POST',
    headers: { 'Content-Type': 'application/json' },
    body: JSON.stringify({ lob_key: lobSel.value })
  });
  const r = await api('/api/lobs/' + encodeURIComponent(lobSel.value) + '/apps');
  appSel.innerHTML = '';
  for (const app of (r.body.apps || [])) {
    const o = document.createElement('option');
    o.value = app;
    o.textContent = app;
    appSel.appendChild(o);
  }
}

lobSel.addEventListener('change', onLob);

document.getElementById('form').addEventListener('submit', async (e) => {
  e.preventDefault();
  await api('/api/select', {
    method: 'POST',
    headers: { 'Content-Type': 'application/json' },
    body: JSON.stringify({ lob_key: lobSel.value, target_app: appSel.value })
  });
  const r = await api('/api/dispatch', {
    method: 'POST',
    headers: {
      'Content-Type': 'application/json',
      'Authorization': 'Bearer ' + document.getElementById('token').value
    },
    body: JSON.stringify({
      project_name: document.getElementById('project').value,
      release_type: document.getElementById('type').value,
      release_description: document.getElementById('desc').value
    })
  });
  if (r.ok) {
    status.className = 'ok';
    status.textContent = 'Dispatched. Notifications go to ' + (r.body.email_dl || 'n/a') + '.';
    await start();
  } else if (r.body.error === 'invalid_pairing') {
    status.className = 'error';
    status.textContent = r.body.target_app + ' is not valid for ' + r.body.lob_key +
      '. Valid choices: ' + (r.body.alternatives.join(', ') || '(none)');
  } else {
    status.className = 'error';
    status.textContent = r.body.error || ('dispatch failed (' + r.status + ')');
  }
});

start();
</script>
</body>
</html>
`
